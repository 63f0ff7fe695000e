package commands

import (
	"context"

	"github.com/spf13/cobra"
)

func addRecap(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "recap",
		Short: "Summarize what got done today",
		Example: `
ondeck recap
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				r, err := s.svc.Recap(ctx)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.PrintJSON(r)
				}
				s.printer(cmd.OutOrStdout(), false).Recap(r)
				return nil
			})
		},
	}

	topLevel.AddCommand(cmd)
}
