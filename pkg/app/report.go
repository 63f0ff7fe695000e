package app

import (
	"context"

	"tableflip.dev/ondeck/pkg/archive"
	"tableflip.dev/ondeck/pkg/backlog"
	"tableflip.dev/ondeck/pkg/datekey"
	"tableflip.dev/ondeck/pkg/ondeck"
	"tableflip.dev/ondeck/pkg/routine"
)

// Recap summarizes the current day.
type Recap struct {
	Today         datekey.Key `json:"today"`
	ArchivedToday int         `json:"archivedToday"`
	RoutineDone   int         `json:"routineDone"`
	RoutineTotal  int         `json:"routineTotal"`
	// CompletedToday is always ArchivedToday + RoutineDone.
	CompletedToday int `json:"completedToday"`
	OpenToday      int `json:"openToday"`
	OpenUpNext     int `json:"openUpNext"`
	Backlog        int `json:"backlog"`
	DueLater       int `json:"dueLater"`
}

// Recap counts what was done today and what is still open.
func (s *Service) Recap(ctx context.Context) (Recap, error) {
	if err := s.init(); err != nil {
		return Recap{}, err
	}
	if err := s.lock(ctx); err != nil {
		return Recap{}, err
	}
	defer s.unlock()

	today := s.Today()
	items, _ := s.routines.LoadWithReset(ctx, today)
	open := ondeck.ListOpen(s.tasks.Load(ctx))
	later := s.later.Load(ctx)

	r := Recap{
		Today:         today,
		ArchivedToday: s.archive.CountForDay(ctx, today),
		RoutineDone:   routine.DoneCount(items),
		RoutineTotal:  len(items),
		OpenToday:     len(open.TodayFocus),
		OpenUpNext:    len(open.UpNext),
		Backlog:       len(later),
	}
	r.CompletedToday = r.ArchivedToday + r.RoutineDone
	for _, it := range later {
		if !it.Due.IsZero() {
			r.DueLater++
		}
	}
	return r, ctx.Err()
}

// CompletedToday is the archived count for today plus the checked routine
// items. It is derived on every call and never stored.
func (s *Service) CompletedToday(ctx context.Context) (int, error) {
	r, err := s.Recap(ctx)
	if err != nil {
		return 0, err
	}
	return r.CompletedToday, nil
}

// History returns the archive grouped by completion day, newest first. A
// positive days limits it to the last days calendar days including today.
func (s *Service) History(ctx context.Context, days int) ([]archive.Group, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.unlock()

	groups := archive.GroupByDay(s.archive.Load(ctx))
	if days <= 0 {
		return groups, nil
	}
	return archive.Since(groups, datekey.SpanStart(s.Today(), days)), nil
}

// DueSoon returns backlog items due within days of today, soonest first.
func (s *Service) DueSoon(ctx context.Context, days int) ([]backlog.Item, error) {
	items, err := s.Later(ctx)
	if err != nil {
		return nil, err
	}
	limit := s.Today().AddDays(days)
	out := make([]backlog.Item, 0, len(items))
	for _, it := range items {
		if it.Due.IsZero() || limit.Before(it.Due) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}
