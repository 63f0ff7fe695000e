package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/ondeck/pkg/app"
	"tableflip.dev/ondeck/pkg/logging"
	"tableflip.dev/ondeck/pkg/printers"
	"tableflip.dev/ondeck/pkg/store"
)

// session is one opened store and the orchestrator over it.
type session struct {
	cfg   store.Config
	store store.Store
	svc   *app.Service
	log   *zap.Logger
}

// loadConfig and openStore are swapped in tests.
var (
	loadConfig = store.LoadConfig
	openStore  = store.Load
)

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel(), cfg.LogFormat())
	if err != nil {
		return nil, err
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	out := cmd.OutOrStdout()
	svc := &app.Service{
		Store:          st,
		Log:            log,
		UndoWindow:     cfg.UndoWindow(),
		HydrateTimeout: cfg.HydrateTimeout(),
		Seed:           cfg.Seed(),
		OnRoutineComplete: func() {
			_, _ = color.New(color.FgGreen, color.Bold).Fprintln(out, "Routine complete. Nice work!")
		},
	}
	return &session{cfg: cfg, store: st, svc: svc, log: log}, nil
}

func (s *session) Close() {
	s.svc.Close()
	if c, ok := s.store.(store.Closer); ok {
		if err := c.Close(); err != nil {
			s.log.Warn("close store", zap.Error(err))
		}
	}
	_ = s.log.Sync()
}

// hydrate loads everything for display. When loading times out and
// --defaults is set, an empty snapshot for today is returned instead.
func (s *session) hydrate(ctx context.Context) (app.Snapshot, error) {
	snap, err := s.svc.Hydrate(ctx)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, app.ErrHydrationTimeout) {
		return app.Snapshot{}, err
	}
	if !useDefaults {
		return app.Snapshot{}, fmt.Errorf("%w (retry, or pass --defaults to continue without saved data)", err)
	}
	s.log.Warn("continuing with defaults", zap.Error(err))
	return app.Snapshot{Today: s.svc.Today()}, nil
}

func (s *session) printer(w io.Writer, showID bool) *printers.PrettyPrint {
	return &printers.PrettyPrint{Out: w, ShowID: showID}
}

// withSession opens a session, runs fn and closes the session. Errors go
// through the --json handler.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	cmd.SilenceUsage = true
	s, err := openSession(cmd)
	if err != nil {
		return output.HandleError(err)
	}
	defer s.Close()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return output.HandleError(fn(ctx, s))
}

func stdin(cmd *cobra.Command) io.Reader {
	if r := cmd.InOrStdin(); r != nil {
		return r
	}
	return os.Stdin
}
