package app

import (
	"context"

	"go.uber.org/zap"

	"tableflip.dev/ondeck/pkg/backlog"
	"tableflip.dev/ondeck/pkg/datekey"
	"tableflip.dev/ondeck/pkg/ondeck"
)

// Reconciled reports what a focus reconciliation changed.
type Reconciled struct {
	Today        datekey.Key
	RoutineReset bool
	Surfaced     SurfaceResult
}

// Reconcile runs on every cold load and every focus event: it applies the
// daily routine reset and surfaces due backlog items. Both checks read
// persisted state, so calling it repeatedly is harmless. Write failures are
// logged and do not fail the reconciliation; only a cancelled context does.
func (s *Service) Reconcile(ctx context.Context) (Reconciled, error) {
	if err := s.init(); err != nil {
		return Reconciled{}, err
	}
	if err := s.lock(ctx); err != nil {
		return Reconciled{}, err
	}
	defer s.unlock()

	today := s.Today()
	out := Reconciled{Today: today}
	_, out.RoutineReset = s.routines.LoadWithReset(ctx, today)

	res, err := s.surfaceLocked(ctx, today)
	if err != nil {
		s.Log.Warn("surfacing incomplete", zap.Error(err))
	}
	out.Surfaced = res
	return out, ctx.Err()
}

// SurfaceResult lists what auto-surfacing moved.
type SurfaceResult struct {
	// Promoted are the tasks added to the on-deck list.
	Promoted []ondeck.Task
	// Dropped are due backlog items whose title was already on deck. They
	// leave the backlog all the same.
	Dropped []backlog.Item
}

// Surface promotes every backlog item due today or earlier onto the deck.
func (s *Service) Surface(ctx context.Context) (SurfaceResult, error) {
	if err := s.init(); err != nil {
		return SurfaceResult{}, err
	}
	if err := s.lock(ctx); err != nil {
		return SurfaceResult{}, err
	}
	defer s.unlock()
	return s.surfaceLocked(ctx, s.Today())
}

// surfaceLocked moves due backlog items on deck. Items due exactly today
// land in Today-Focus; overdue ones land in Up-Next.
//
// Write order: on-deck first, then backlog. If the process dies in between,
// the items are still in the backlog and surface again on the next load,
// where Merge drops them by title. If the on-deck write fails the backlog is
// left untouched.
func (s *Service) surfaceLocked(ctx context.Context, today datekey.Key) (SurfaceResult, error) {
	items := s.later.Load(ctx)
	part := backlog.SurfaceDue(items, today)
	if len(part.ToPromote) == 0 {
		return SurfaceResult{}, nil
	}

	existing := s.tasks.Load(ctx)
	onDeck := ondeck.Titles(existing)
	var res SurfaceResult
	incoming := make([]ondeck.Task, 0, len(part.ToPromote))
	for _, it := range part.ToPromote {
		key := ondeck.NormalizeTitle(it.Title)
		if _, dup := onDeck[key]; dup {
			res.Dropped = append(res.Dropped, it)
			continue
		}
		onDeck[key] = struct{}{}
		incoming = append(incoming, taskFromItem(it, today))
	}
	merged := ondeck.Merge(incoming, existing)
	res.Promoted = merged[:len(merged)-len(existing)]

	if err := s.tasks.Save(ctx, merged); err != nil {
		return SurfaceResult{}, err
	}
	if err := s.later.Save(ctx, part.Remaining); err != nil {
		return res, err
	}
	s.Log.Debug("surfaced backlog items",
		zap.Int("promoted", len(res.Promoted)),
		zap.Int("dropped", len(res.Dropped)),
		zap.String("day", string(today)))
	return res, nil
}

func taskFromItem(it backlog.Item, today datekey.Key) ondeck.Task {
	plan := ondeck.PlanUpNext
	if it.Due == today {
		plan = ondeck.PlanToday
	}
	return ondeck.Task{
		Title:    it.Title,
		Category: it.Category,
		Due:      it.Due,
		Plan:     plan,
	}
}

// PromoteLater explicitly moves one backlog item into Today-Focus, using the
// same write order as surfacing. A title already on deck is not duplicated;
// the backlog item is removed either way.
func (s *Service) PromoteLater(ctx context.Context, id string) (ondeck.Task, error) {
	if err := s.init(); err != nil {
		return ondeck.Task{}, err
	}
	if err := s.lock(ctx); err != nil {
		return ondeck.Task{}, err
	}
	defer s.unlock()

	items := s.later.Load(ctx)
	it, ok := backlog.Find(items, id)
	if !ok {
		return ondeck.Task{}, NotFoundError{Kind: "backlog item", ID: id}
	}
	rest, _ := backlog.Remove(items, id)

	t := taskFromItem(it, s.Today())
	t.Plan = ondeck.PlanToday
	merged := ondeck.Merge([]ondeck.Task{t}, s.tasks.Load(ctx))
	if i := indexByTitle(merged, t.Title); i >= 0 {
		t = merged[i]
	}
	if err := s.tasks.Save(ctx, merged); err != nil {
		return ondeck.Task{}, err
	}
	if err := s.later.Save(ctx, rest); err != nil {
		return t, err
	}
	return t, nil
}

func indexByTitle(tasks []ondeck.Task, title string) int {
	key := ondeck.NormalizeTitle(title)
	for i, t := range tasks {
		if ondeck.NormalizeTitle(t.Title) == key {
			return i
		}
	}
	return -1
}
