package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/ondeck/pkg/commands/options"
)

func addToday(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "today",
		Aliases: []string{"ls", "list"},
		Short:   "Show today's focus, up next and the routine",
		Example: `
ondeck today
ondeck ls --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runToday(cmd, io)
		},
	}

	topLevel.AddCommand(cmd)
}

func runToday(cmd *cobra.Command, io *options.IDOptions) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		snap, err := s.hydrate(ctx)
		if err != nil {
			return err
		}
		if output.JSON {
			return output.PrintJSON(snap)
		}
		s.printer(cmd.OutOrStdout(), io.ShowID).Snapshot(snap)
		return nil
	})
}
