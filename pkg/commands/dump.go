package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/ondeck/pkg/commands/options"
)

func addDump(topLevel *cobra.Command) {
	do := &options.DumpOptions{}

	cmd := &cobra.Command{
		Use:   "dump [text]",
		Short: "Turn a brain dump into tasks",
		Long: `Dump classifies every line of free text into a category and suggests
whether it belongs in today's focus or the later list. Lines mentioning
"today", "asap" or "tonight" go to today's focus.

Without text, lines are read from stdin until EOF. Nothing is saved until
the suggestions are confirmed.`,
		Example: `
ondeck dump "call the dentist today"
printf 'buy milk\nrenew passport\n' | ondeck dump --yes
ondeck dump --later "research standing desks"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, err := do.Bucket()
			if err != nil {
				return err
			}
			in := bufio.NewReader(stdin(cmd))
			text := strings.Join(args, " ")
			if text == "" || text == "-" {
				b, err := io.ReadAll(in)
				if err != nil {
					return err
				}
				text = string(b)
			}

			return withSession(cmd, func(ctx context.Context, s *session) error {
				drafts := s.svc.Intake(text)
				if len(drafts) == 0 {
					return errors.New("nothing to add")
				}
				if bucket != "" {
					for i := range drafts {
						drafts[i].Bucket = bucket
					}
				}

				pp := s.printer(cmd.OutOrStdout(), false)
				if !do.Yes {
					if output.JSON {
						return output.PrintJSON(drafts)
					}
					pp.Drafts(drafts...)
					ok, err := confirm(cmd.OutOrStdout(), in, "Save these?")
					if err != nil {
						return err
					}
					if !ok {
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Discarded.")
						return nil
					}
				}

				res, err := s.svc.ConfirmReview(ctx, drafts)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.PrintJSON(res)
				}
				pp.Review(res)
				return nil
			})
		},
	}

	options.AddDumpArgs(cmd, do)
	topLevel.AddCommand(cmd)
}

// confirm asks a yes/no question. An empty answer means yes.
func confirm(w io.Writer, in *bufio.Reader, question string) (bool, error) {
	_, _ = fmt.Fprintf(w, "%s [Y/n] ", question)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
