package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"tableflip.dev/ondeck/pkg/archive"
	"tableflip.dev/ondeck/pkg/backlog"
	"tableflip.dev/ondeck/pkg/datekey"
	"tableflip.dev/ondeck/pkg/ondeck"
	"tableflip.dev/ondeck/pkg/routine"
	"tableflip.dev/ondeck/pkg/store"
	"tableflip.dev/ondeck/pkg/undo"
)

// DefaultHydrateTimeout bounds the initial load when none is configured.
const DefaultHydrateTimeout = 5 * time.Second

// Service is the lifecycle orchestrator. It is the only code path that moves
// a task between buckets (Backlog, On-Deck, Archive) and sequences the
// writes of each transition so a crash between two writes is repaired by
// title de-duplication on the next load.
//
// Every transition holds one mutex for its whole read-modify-write, so a
// focus reconciliation cannot interleave with a completion or an undo timer.
type Service struct {
	Store          store.Store
	Clock          datekey.Clock
	Log            *zap.Logger
	UndoWindow     time.Duration
	HydrateTimeout time.Duration
	// Seed fills the on-deck list and routine with defaults on first run.
	Seed bool

	// OnRoutineComplete fires once each time the routine goes from not
	// fully done to fully done.
	OnRoutineComplete func()
	// OnUndoExpired fires when a completion can no longer be undone.
	OnUndoExpired func(archive.Entry)

	once     sync.Once
	sem      *semaphore.Weighted
	tasks    *ondeck.Manager
	later    *backlog.Manager
	routines *routine.Manager
	archive  *archive.Manager
	pending  *undo.Slot[pendingUndo]
}

type pendingUndo struct {
	Entry archive.Entry
	Task  ondeck.Task
}

var errNoStore = errors.New("app: no persistence configured")

func (s *Service) init() error {
	if s.Store == nil {
		return errNoStore
	}
	s.once.Do(func() {
		if s.Log == nil {
			s.Log = zap.NewNop()
		}
		if s.Clock == nil {
			s.Clock = datekey.SystemClock
		}
		s.tasks = &ondeck.Manager{Store: s.Store, Log: s.Log, Seeded: s.Seed}
		s.later = &backlog.Manager{Store: s.Store, Log: s.Log}
		s.routines = &routine.Manager{Store: s.Store, Log: s.Log, Seeded: s.Seed}
		s.archive = &archive.Manager{Store: s.Store, Log: s.Log}
		s.sem = semaphore.NewWeighted(1)
		s.pending = &undo.Slot[pendingUndo]{
			Window: s.UndoWindow,
			OnExpire: func(p pendingUndo) {
				s.Log.Debug("undo window closed", zap.String("entry", p.Entry.ID))
				if s.OnUndoExpired != nil {
					s.OnUndoExpired(p.Entry)
				}
			},
		}
	})
	return nil
}

// lock serializes access to the stores. It gives up with ctx.Err() when ctx
// ends first, so a caller is never stuck behind a hung store read.
func (s *Service) lock(ctx context.Context) error {
	return s.sem.Acquire(ctx, 1)
}

func (s *Service) unlock() { s.sem.Release(1) }

// Today returns the current local day.
func (s *Service) Today() datekey.Key {
	if s.Clock == nil {
		return datekey.Today(datekey.SystemClock)
	}
	return datekey.Today(s.Clock)
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

// Snapshot is everything the presentation layer renders.
type Snapshot struct {
	Today           datekey.Key     `json:"today"`
	TodayFocus      []ondeck.Task   `json:"todayFocus"`
	UpNext          []ondeck.Task   `json:"upNext"`
	Later           []backlog.Item  `json:"later"`
	Routine         []routine.Item  `json:"routine"`
	RoutineComplete bool            `json:"routineComplete"`
	Archive         []archive.Group `json:"archive"`
	CompletedToday  int             `json:"completedToday"`
	Pending         *archive.Entry  `json:"pendingUndo,omitempty"`
}

// Hydrate is the cold load: it runs the daily reset and due-date surfacing,
// then returns a snapshot. It gives up after HydrateTimeout and returns
// ErrHydrationTimeout so the caller can offer to retry or continue with
// defaults.
func (s *Service) Hydrate(ctx context.Context) (Snapshot, error) {
	if err := s.init(); err != nil {
		return Snapshot{}, err
	}
	timeout := s.HydrateTimeout
	if timeout <= 0 {
		timeout = DefaultHydrateTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		snap Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		if _, err := s.Reconcile(ctx); err != nil {
			done <- result{err: err}
			return
		}
		snap, err := s.Snapshot(ctx)
		done <- result{snap: snap, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) {
			return Snapshot{}, fmt.Errorf("%w: %w", ErrHydrationTimeout, r.err)
		}
		return r.snap, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Snapshot{}, fmt.Errorf("%w after %s: %w", ErrHydrationTimeout, timeout, ctx.Err())
		}
		return Snapshot{}, ctx.Err()
	}
}

// Snapshot reads every bucket for rendering. Display order is derived here
// and never written back.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := s.init(); err != nil {
		return Snapshot{}, err
	}
	if err := s.lock(ctx); err != nil {
		return Snapshot{}, err
	}
	defer s.unlock()
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	today := s.Today()
	open := ondeck.ListOpen(s.tasks.Load(ctx))
	items, _ := s.routines.LoadWithReset(ctx, today)
	entries := s.archive.Load(ctx)

	snap := Snapshot{
		Today:           today,
		TodayFocus:      ondeck.SortForDisplay(open.TodayFocus, today),
		UpNext:          ondeck.SortForDisplay(open.UpNext, today),
		Later:           backlog.SortedByDue(s.later.Load(ctx)),
		Routine:         items,
		RoutineComplete: routine.IsFullyComplete(items),
		Archive:         archive.GroupByDay(entries),
		CompletedToday:  archive.CountForDay(entries, today) + routine.DoneCount(items),
	}
	if p, ok := s.pending.Peek(); ok {
		entry := p.Entry
		snap.Pending = &entry
	}
	return snap, ctx.Err()
}

// Tasks returns the persisted on-deck list in stored order.
func (s *Service) Tasks(ctx context.Context) ([]ondeck.Task, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.unlock()
	return s.tasks.Load(ctx), nil
}

// Close drops any pending undo.
func (s *Service) Close() {
	if s.pending != nil {
		s.pending.Cancel()
	}
}

// swallow logs a failed write that callers are not told about.
func (s *Service) swallow(what string, err error) {
	if err != nil {
		s.Log.Warn("write failed", zap.String("op", what), zap.Error(err))
	}
}
