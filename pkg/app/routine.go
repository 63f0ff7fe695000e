package app

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"tableflip.dev/ondeck/pkg/routine"
)

// Routine returns today's routine, resetting it first when the day changed.
func (s *Service) Routine(ctx context.Context) ([]routine.Item, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.unlock()
	items, _ := s.routines.LoadWithReset(ctx, s.Today())
	return items, nil
}

// ToggleRoutine flips one routine item. When the toggle completes the whole
// routine, OnRoutineComplete is called once, after the lock is released.
// Un-checking an item re-arms it. A failed write is logged.
func (s *Service) ToggleRoutine(ctx context.Context, id int) ([]routine.Item, error) {
	items, completed, err := s.toggleRoutine(ctx, id)
	if err != nil {
		return nil, err
	}
	if completed && s.OnRoutineComplete != nil {
		s.OnRoutineComplete()
	}
	return items, nil
}

func (s *Service) toggleRoutine(ctx context.Context, id int) ([]routine.Item, bool, error) {
	if err := s.init(); err != nil {
		return nil, false, err
	}
	if err := s.lock(ctx); err != nil {
		return nil, false, err
	}
	defer s.unlock()

	before, _ := s.routines.LoadWithReset(ctx, s.Today())
	after, ok := routine.Toggle(before, id)
	if !ok {
		return nil, false, NotFoundError{Kind: "routine item", ID: strconv.Itoa(id)}
	}
	s.swallow("toggle routine", s.routines.Save(ctx, after))

	completed := !routine.IsFullyComplete(before) && routine.IsFullyComplete(after)
	if completed {
		s.Log.Debug("routine complete", zap.Int("items", len(after)))
	}
	return after, completed, nil
}

// EditRoutine replaces the routine titles. Every item comes back unchecked.
func (s *Service) EditRoutine(ctx context.Context, titles []string) ([]routine.Item, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.unlock()

	current, _ := s.routines.LoadWithReset(ctx, s.Today())
	items := routine.Edit(current, titles)
	s.swallow("edit routine", s.routines.Save(ctx, items))
	return items, nil
}
