package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/ondeck/pkg/archive"
	"tableflip.dev/ondeck/pkg/glyph"
	"tableflip.dev/ondeck/pkg/undo"
)

func addDone(topLevel *cobra.Command) {
	var id int
	var undoPrompt bool

	cmd := &cobra.Command{
		Use:     "done <number>",
		Aliases: []string{"complete", "completed"},
		Short:   "Complete a task and move it to the archive",
		Long: `Done archives the task with the given number. With --undo-prompt the
command waits for the undo window; pressing Enter before it closes puts the
task back.`,
		Example: `
ondeck done 2
ondeck done 2 --undo-prompt
`,
		Args: func(_ *cobra.Command, args []string) error {
			var err error
			id, err = taskNumber(args)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				expired := make(chan archive.Entry, 1)
				s.svc.OnUndoExpired = func(e archive.Entry) {
					select {
					case expired <- e:
					default:
					}
				}

				entry, err := s.svc.Complete(ctx, id)
				if err != nil {
					return err
				}
				if output.JSON && !undoPrompt {
					return output.PrintJSON(entry)
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "%s %s\n", glyph.Completed, glyph.Strike(entry.Title))
				if !undoPrompt {
					return nil
				}
				return waitForUndo(ctx, s, w, stdin(cmd), expired)
			})
		},
	}

	cmd.Flags().BoolVar(&undoPrompt, "undo-prompt", false, "Wait for Enter to undo the completion.")
	topLevel.AddCommand(cmd)
}

func waitForUndo(ctx context.Context, s *session, w io.Writer, in io.Reader, expired <-chan archive.Entry) error {
	window := s.cfg.UndoWindow()
	if window <= 0 {
		window = undo.DefaultWindow
	}
	f := color.New(color.Faint)
	_, _ = f.Fprintf(w, "Press Enter within %s to undo.\n", window.Round(time.Second))

	pressed := make(chan struct{})
	go func() {
		r := bufio.NewReader(in)
		if _, err := r.ReadString('\n'); err == nil {
			close(pressed)
		}
	}()

	select {
	case <-pressed:
		t, ok, err := s.svc.Undo(ctx)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = f.Fprintln(w, "Too late, the completion stands.")
			return nil
		}
		if output.JSON {
			return output.PrintJSON(t)
		}
		_, _ = fmt.Fprintf(w, "%3d %s %s restored\n", t.ID, glyph.Task, t.Title)
	case <-expired:
		_, _ = f.Fprintln(w, "Archived.")
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
