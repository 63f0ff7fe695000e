package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/ondeck/pkg/archive"
	"tableflip.dev/ondeck/pkg/commands/options"
)

func addArchive(topLevel *cobra.Command) {
	so := &options.SinceOptions{}
	io := &options.IDOptions{}
	var calendar bool

	cmd := &cobra.Command{
		Use:     "archive",
		Aliases: []string{"history"},
		Short:   "Display completed tasks grouped by day",
		Example: `
ondeck archive
ondeck archive --since 3d
ondeck archive --all --calendar
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			days, label, err := so.Days()
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *session) error {
				groups, err := s.svc.History(ctx, days)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.PrintJSON(groups)
				}
				pp := s.printer(cmd.OutOrStdout(), io.ShowID)
				if calendar {
					var entries []archive.Entry
					for _, g := range groups {
						entries = append(entries, g.Rows...)
					}
					pp.Calendar(s.svc.Today(), entries...)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Archive · %s\n\n", label)
				pp.Archive(groups...)
				return nil
			})
		},
	}

	options.AddSinceArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)
	cmd.Flags().BoolVar(&calendar, "calendar", false, "Show this month with the days you completed something highlighted.")
	topLevel.AddCommand(cmd)
}
