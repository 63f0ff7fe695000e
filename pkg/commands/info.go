package commands

import (
	"context"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about where tasks are stored and how ondeck is configured.",
		Example: `
ondeck info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(_ context.Context, s *session) error {
				info := map[string]any{
					"path":           s.cfg.BasePath(),
					"backend":        s.cfg.Backend(),
					"undoWindow":     s.cfg.UndoWindow().String(),
					"hydrateTimeout": s.cfg.HydrateTimeout().String(),
					"seed":           s.cfg.Seed(),
					"logLevel":       s.cfg.LogLevel(),
				}
				if output.JSON {
					return output.PrintJSON(info)
				}
				tbl := uitable.New()
				tbl.Separator = "  "
				for _, k := range []string{"path", "backend", "undoWindow", "hydrateTimeout", "seed", "logLevel"} {
					tbl.AddRow(k, info[k])
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), tbl)
				return nil
			})
		},
	}

	topLevel.AddCommand(cmd)
}
