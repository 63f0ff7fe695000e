package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/ondeck/pkg/glyph"
)

func addPromote(topLevel *cobra.Command) {
	var id int

	cmd := &cobra.Command{
		Use:   "promote <number>",
		Short: "Move an up-next task into today's focus",
		Example: `
ondeck promote 3
`,
		Args: func(_ *cobra.Command, args []string) error {
			var err error
			id, err = taskNumber(args)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				t, err := s.svc.Promote(ctx, id)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.PrintJSON(t)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%3d %s %s\n", t.ID, glyph.Focus, t.Title)
				return nil
			})
		},
	}

	topLevel.AddCommand(cmd)
}

// taskNumber parses the single positional task number shown by `ondeck today`.
func taskNumber(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("requires a task number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid task number %q", args[0])
	}
	return n, nil
}
