package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/ondeck/pkg/app"
	"tableflip.dev/ondeck/pkg/backlog"
	"tableflip.dev/ondeck/pkg/classify"
	"tableflip.dev/ondeck/pkg/commands/options"
	"tableflip.dev/ondeck/pkg/glyph"
	"tableflip.dev/ondeck/pkg/printers"
)

func addLater(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	var soon int

	cmd := &cobra.Command{
		Use:   "later",
		Short: "List tasks saved for later",
		Long: `Later lists deferred tasks ordered by due day. Tasks with a due day move
onto the deck automatically once that day arrives.`,
		Example: `
ondeck later
ondeck later --soon 7 -k
ondeck later add "renew passport" --on 7/1
ondeck later due 1f3a tomorrow
ondeck later promote 1f3a
ondeck later rm 1f3a
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				var items []backlog.Item
				var err error
				if soon > 0 {
					items, err = s.svc.DueSoon(ctx, soon)
				} else {
					items, err = s.svc.Later(ctx)
				}
				if err != nil {
					return err
				}
				if output.JSON {
					return output.PrintJSON(items)
				}
				pp := s.printer(cmd.OutOrStdout(), io.ShowID)
				pp.TitleWithCount("Later", len(items), "task")
				pp.Backlog(items...)
				return nil
			})
		},
	}

	options.AddShowIDArgs(cmd, io)
	cmd.Flags().IntVar(&soon, "soon", 0, "Only show tasks due within this many days.")

	addLaterAdd(cmd)
	addLaterRemove(cmd)
	addLaterDue(cmd)
	addLaterPromote(cmd)
	topLevel.AddCommand(cmd)
}

func addLaterAdd(parent *cobra.Command) {
	on := &options.OnOptions{}
	var category string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Save one task for later",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a title")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var cat classify.Category
			if category != "" {
				var err error
				if cat, err = classify.ParseCategory(category); err != nil {
					return err
				}
			}
			return withSession(cmd, func(ctx context.Context, s *session) error {
				due, err := on.GetOn(s.svc.Today())
				if err != nil {
					return err
				}
				it, err := s.svc.AddLater(ctx, strings.Join(args, " "), cat, due)
				if err != nil {
					return err
				}
				if output.JSON {
					return output.PrintJSON(it)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s saved for later (%s)\n", glyph.Later, it.Title, printers.ShortID(it.ID))
				return nil
			})
		},
	}

	options.AddOnArgs(cmd, on)
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category; guessed from the title when empty.")
	parent.AddCommand(cmd)
}

func addLaterRemove(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task saved for later",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				it, err := resolveLater(ctx, s.svc, args[0])
				if err != nil {
					return err
				}
				if err := s.svc.RemoveLater(ctx, it.ID); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", it.Title)
				return nil
			})
		},
	}
	parent.AddCommand(cmd)
}

func addLaterDue(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "due <id> <day|none>",
		Short: "Set or clear the due day of a task saved for later",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				it, err := resolveLater(ctx, s.svc, args[0])
				if err != nil {
					return err
				}
				due, err := options.ParseDay(args[1], s.svc.Today())
				if err != nil {
					return err
				}
				it, err = s.svc.UpdateLater(ctx, it.ID, backlog.Patch{Due: &due})
				if err != nil {
					return err
				}
				// A task due today or earlier goes on deck right away.
				if _, err := s.svc.Surface(ctx); err != nil {
					return err
				}
				if output.JSON {
					return output.PrintJSON(it)
				}
				if it.Due.IsZero() {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s has no due day\n", it.Title)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s due %s\n", it.Title, it.Due)
				return nil
			})
		},
	}
	parent.AddCommand(cmd)
}

func addLaterPromote(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "promote <id>",
		Short: "Move a task saved for later into today's focus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				it, err := resolveLater(ctx, s.svc, args[0])
				if err != nil {
					return err
				}
				t, err := s.svc.PromoteLater(ctx, it.ID)
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
	parent.AddCommand(cmd)
}

// resolveLater finds the backlog item whose id starts with prefix.
func resolveLater(ctx context.Context, svc *app.Service, prefix string) (backlog.Item, error) {
	items, err := svc.Later(ctx)
	if err != nil {
		return backlog.Item{}, err
	}
	switch found := backlog.MatchPrefix(items, prefix); len(found) {
	case 0:
		return backlog.Item{}, app.NotFoundError{Kind: "backlog item", ID: prefix}
	case 1:
		return found[0], nil
	default:
		return backlog.Item{}, fmt.Errorf("id %q matches %d tasks, use more characters", prefix, len(found))
	}
}
