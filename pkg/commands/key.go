package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/ondeck/pkg/glyph"
	"tableflip.dev/ondeck/pkg/printers"
)

func addKey(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print the glyphs and what they mean",
		Example: `
ondeck key
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			if output.JSON {
				return output.HandleError(output.PrintJSON(glyph.DefaultGlyphs()))
			}
			pp := &printers.PrettyPrint{Out: cmd.OutOrStdout()}
			pp.Key()
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
