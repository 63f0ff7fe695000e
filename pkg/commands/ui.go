package commands

import (
	"context"

	"github.com/spf13/cobra"

	teaui "tableflip.dev/ondeck/pkg/runner/tea"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the full-screen interface",
		Example: `
ondeck ui
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				return teaui.Run(ctx, s.svc)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
