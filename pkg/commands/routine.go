package commands

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/ondeck/pkg/routine"
)

func addRoutine(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "routine",
		Short: "Show the daily routine",
		Long: `The routine is a short checklist whose steps are unchecked again every
morning.`,
		Example: `
ondeck routine
ondeck routine toggle 2
ondeck routine edit "Make the bed" "Stretch" "Read 10 pages"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				items, err := s.svc.Routine(ctx)
				if err != nil {
					return err
				}
				return printRoutine(cmd, s, items)
			})
		},
	}

	addRoutineToggle(cmd)
	addRoutineEdit(cmd)
	topLevel.AddCommand(cmd)
}

func addRoutineToggle(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "toggle <number>",
		Aliases: []string{"check", "x"},
		Short:   "Check or uncheck a routine step",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *session) error {
				items, err := s.svc.ToggleRoutine(ctx, id)
				if err != nil {
					return err
				}
				return printRoutine(cmd, s, items)
			})
		},
	}
	parent.AddCommand(cmd)
}

func addRoutineEdit(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "edit <step>...",
		Short: "Replace the routine steps",
		Long: `Edit replaces the routine with the given steps, in order. Existing step
numbers are kept by position and every step starts unchecked.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires at least one step")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				items, err := s.svc.EditRoutine(ctx, args)
				if err != nil {
					return err
				}
				return printRoutine(cmd, s, items)
			})
		},
	}
	parent.AddCommand(cmd)
}

func printRoutine(cmd *cobra.Command, s *session, items []routine.Item) error {
	if output.JSON {
		return output.PrintJSON(items)
	}
	pp := s.printer(cmd.OutOrStdout(), false)
	pp.Title("Daily Routine")
	pp.Routine(items...)
	return nil
}
