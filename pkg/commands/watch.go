package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/ondeck/pkg/store"
)

func addWatch(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep today's view up to date as tasks change",
		Long: `Watch prints today's view and prints it again whenever the stored tasks
change, for example from another terminal. The daily reset and due-day
surfacing run on every change, so leaving it open across midnight rolls the
day over. Only the diskv backend can be watched.`,
		Example: `
ondeck watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				w, ok := s.store.(store.Watcher)
				if !ok {
					return fmt.Errorf("the %s backend cannot be watched", s.cfg.Backend())
				}
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
				defer stop()

				events, err := w.Watch(ctx)
				if err != nil {
					return err
				}
				return watchLoop(ctx, cmd, s, events)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func watchLoop(ctx context.Context, cmd *cobra.Command, s *session, events <-chan store.Event) error {
	render := func() error {
		snap, err := s.hydrate(ctx)
		if err != nil {
			return err
		}
		if output.JSON {
			return output.PrintJSON(snap)
		}
		f := color.New(color.Faint)
		_, _ = f.Fprintf(cmd.OutOrStdout(), "── %s ──\n", time.Now().Format("15:04:05"))
		s.printer(cmd.OutOrStdout(), false).Snapshot(snap)
		return nil
	}
	if err := render(); err != nil {
		return err
	}

	// Rolls the day over even when nothing is written.
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()
	day := s.svc.Today()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.log.Debug("store changed", zap.String("key", ev.Key))
		case <-tick.C:
			if s.svc.Today() == day {
				continue
			}
			day = s.svc.Today()
		}
		if err := render(); err != nil {
			return err
		}
	}
}
