package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tableflip.dev/ondeck/pkg/backlog"
	"tableflip.dev/ondeck/pkg/classify"
	"tableflip.dev/ondeck/pkg/datekey"
	"tableflip.dev/ondeck/pkg/ondeck"
)

// Draft is a classified line awaiting review. Drafts live only in memory;
// discarding them needs no cleanup.
type Draft struct {
	Title    string            `json:"title"`
	Category classify.Category `json:"category"`
	Bucket   classify.Bucket   `json:"bucket"`
	Due      datekey.Key       `json:"dueDateKey,omitempty"`
}

// Intake classifies every line of a brain dump into drafts. The bucket is a
// suggestion; nothing is stored until ConfirmReview.
func (s *Service) Intake(dump string) []Draft {
	lines := classify.Lines(dump)
	drafts := make([]Draft, 0, len(lines))
	for _, line := range lines {
		r := classify.Classify(line)
		drafts = append(drafts, Draft{
			Title:    line,
			Category: r.Category,
			Bucket:   r.Bucket,
		})
	}
	return drafts
}

// ReviewResult reports where confirmed drafts went.
type ReviewResult struct {
	OnDeck   []ondeck.Task  `json:"onDeck"`
	Later    []backlog.Item `json:"later"`
	Dropped  []Draft        `json:"dropped"`
	Surfaced SurfaceResult  `json:"-"`
}

// ConfirmReview stores user-adjusted drafts: Today drafts are merged into
// Today-Focus and Later drafts are appended to the backlog. Both lists are
// re-read right before merging so changes made since the drafts were built
// are kept. A draft whose title already exists on deck, in the backlog or
// earlier in the batch is dropped. Later drafts that are already due are
// surfaced immediately.
func (s *Service) ConfirmReview(ctx context.Context, drafts []Draft) (ReviewResult, error) {
	if err := s.init(); err != nil {
		return ReviewResult{}, err
	}
	if err := s.lock(ctx); err != nil {
		return ReviewResult{}, err
	}
	defer s.unlock()

	existing := s.tasks.Load(ctx)
	items := s.later.Load(ctx)
	seen := ondeck.Titles(existing)
	for _, it := range items {
		seen[ondeck.NormalizeTitle(it.Title)] = struct{}{}
	}

	var res ReviewResult
	var today []ondeck.Task
	var later []backlog.Item
	for _, d := range drafts {
		title := strings.TrimSpace(d.Title)
		key := ondeck.NormalizeTitle(title)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			res.Dropped = append(res.Dropped, d)
			continue
		}
		seen[key] = struct{}{}
		if d.Bucket == classify.Today {
			today = append(today, ondeck.Task{Title: title, Category: d.Category, Due: d.Due, Plan: ondeck.PlanToday})
			continue
		}
		later = append(later, backlog.NewItem(title, d.Category, d.Due))
	}

	if len(today) > 0 {
		merged := ondeck.Merge(today, existing)
		if err := s.tasks.Save(ctx, merged); err != nil {
			return ReviewResult{}, err
		}
		res.OnDeck = merged[:len(merged)-len(existing)]
	}
	if len(later) > 0 {
		if err := s.later.Save(ctx, backlog.Add(items, later...)); err != nil {
			return res, err
		}
		res.Later = later
	}

	surfaced, err := s.surfaceLocked(ctx, s.Today())
	if err != nil {
		s.Log.Warn("surfacing after review incomplete", zap.Error(err))
	}
	res.Surfaced = surfaced

	s.Log.Debug("review confirmed",
		zap.Int("onDeck", len(res.OnDeck)),
		zap.Int("later", len(res.Later)),
		zap.Int("dropped", len(res.Dropped)))
	return res, nil
}

// Later returns the backlog sorted by due day.
func (s *Service) Later(ctx context.Context) ([]backlog.Item, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	defer s.unlock()
	return backlog.SortedByDue(s.later.Load(ctx)), nil
}

// AddLater stores one manually entered backlog item. An empty category is
// filled in by the classifier. Titles already on deck or in the backlog are
// rejected with ErrDuplicate. A failed write is logged, not returned.
func (s *Service) AddLater(ctx context.Context, title string, category classify.Category, due datekey.Key) (backlog.Item, error) {
	if err := s.init(); err != nil {
		return backlog.Item{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return backlog.Item{}, ErrEmptyTitle
	}
	if category == "" {
		category = classify.CategoryOf(title)
	}

	if err := s.lock(ctx); err != nil {
		return backlog.Item{}, err
	}
	defer s.unlock()

	items := s.later.Load(ctx)
	seen := ondeck.Titles(s.tasks.Load(ctx))
	for _, it := range items {
		seen[ondeck.NormalizeTitle(it.Title)] = struct{}{}
	}
	if _, dup := seen[ondeck.NormalizeTitle(title)]; dup {
		return backlog.Item{}, ErrDuplicate
	}

	it := backlog.NewItem(title, category, due)
	s.swallow("add backlog item", s.later.Save(ctx, backlog.Add(items, it)))
	return it, nil
}

// UpdateLater applies a partial update to a backlog item.
func (s *Service) UpdateLater(ctx context.Context, id string, p backlog.Patch) (backlog.Item, error) {
	if err := s.init(); err != nil {
		return backlog.Item{}, err
	}
	if err := s.lock(ctx); err != nil {
		return backlog.Item{}, err
	}
	defer s.unlock()

	items, ok := backlog.Update(s.later.Load(ctx), id, p)
	if !ok {
		return backlog.Item{}, NotFoundError{Kind: "backlog item", ID: id}
	}
	s.swallow("update backlog item", s.later.Save(ctx, items))
	it, _ := backlog.Find(items, id)
	return it, nil
}

// RemoveLater deletes a backlog item.
func (s *Service) RemoveLater(ctx context.Context, id string) error {
	if err := s.init(); err != nil {
		return err
	}
	if err := s.lock(ctx); err != nil {
		return err
	}
	defer s.unlock()

	items, ok := backlog.Remove(s.later.Load(ctx), id)
	if !ok {
		return NotFoundError{Kind: "backlog item", ID: id}
	}
	s.swallow("remove backlog item", s.later.Save(ctx, items))
	return nil
}
