package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tableflip.dev/ondeck/pkg/runner/shell"
)

func addShell(topLevel *cobra.Command) {
	var prompt string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive prompt that keeps the undo window open between commands",
		Example: `
ondeck shell
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
				defer stop()
				if _, err := s.hydrate(ctx); err != nil {
					return err
				}
				sh := &shell.Shell{
					Service: s.svc,
					In:      stdin(cmd),
					Out:     cmd.OutOrStdout(),
					Prompt:  prompt,
				}
				return sh.Do(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "ondeck> ", "Prompt printed before each command.")
	topLevel.AddCommand(cmd)
}
