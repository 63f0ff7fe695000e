// Package routine owns the small daily checklist whose done flags reset once
// per calendar day.
package routine

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"tableflip.dev/ondeck/pkg/datekey"
	"tableflip.dev/ondeck/pkg/store"
)

// Item is one routine entry.
type Item struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Defaults seed the routine on first run.
var Defaults = []Item{
	{ID: 1, Title: "Make the bed"},
	{ID: 2, Title: "Drink a glass of water"},
	{ID: 3, Title: "Move for 20 minutes"},
	{ID: 4, Title: "Read 10 pages"},
}

// Reset returns items with every done flag cleared.
func Reset(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		it.Done = false
		out[i] = it
	}
	return out
}

// Toggle flips the done flag of the item with id.
func Toggle(items []Item, id int) ([]Item, bool) {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == id {
			out[i].Done = !out[i].Done
			return out, true
		}
	}
	return items, false
}

// Edit rebuilds the list from titles. Ids are kept index-aligned with the
// old list where one exists and continue after the highest old id
// otherwise. Blank titles are dropped and every done flag is cleared.
func Edit(items []Item, titles []string) []Item {
	next := 0
	for _, it := range items {
		if it.ID > next {
			next = it.ID
		}
	}
	out := make([]Item, 0, len(titles))
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		var id int
		if pos := len(out); pos < len(items) {
			id = items[pos].ID
		} else {
			next++
			id = next
		}
		out = append(out, Item{ID: id, Title: title})
	}
	return out
}

// IsFullyComplete reports whether the list is non-empty and all done.
func IsFullyComplete(items []Item) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !it.Done {
			return false
		}
	}
	return true
}

// DoneCount counts the items marked done.
func DoneCount(items []Item) int {
	n := 0
	for _, it := range items {
		if it.Done {
			n++
		}
	}
	return n
}

// Manager loads and saves the routine and its last reset day.
type Manager struct {
	Store  store.Store
	Log    *zap.Logger
	Seeded bool
}

// Load returns the persisted routine without applying the daily reset.
func (m *Manager) Load(ctx context.Context) []Item {
	var items []Item
	err := store.ReadJSON(ctx, m.Store, store.KeyRoutine, &items)
	switch {
	case err == nil:
		return items
	case errors.Is(err, store.ErrNotFound):
		if m.Seeded {
			return Reset(Defaults)
		}
		return []Item{}
	default:
		m.log().Warn("routine read failed, starting empty", zap.String("key", store.KeyRoutine), zap.Error(err))
		return []Item{}
	}
}

// Save writes the routine.
func (m *Manager) Save(ctx context.Context, items []Item) error {
	return store.WriteJSON(ctx, m.Store, store.KeyRoutine, items)
}

// LastReset returns the persisted day of the last reset; empty when never
// reset or unreadable.
func (m *Manager) LastReset(ctx context.Context) datekey.Key {
	var day datekey.Key
	if err := store.ReadJSON(ctx, m.Store, store.KeyRoutineResetOn, &day); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.log().Warn("routine reset day unreadable", zap.String("key", store.KeyRoutineResetOn), zap.Error(err))
		}
		return ""
	}
	return day
}

// LoadWithReset returns the routine for today. When the persisted reset day
// differs from today (including first run) all done flags are cleared and
// both the list and the new reset day are written. The check always reads
// persisted state, so it is safe to call on every load and focus, and a
// second call on the same day changes nothing. The bool reports whether a
// reset happened.
func (m *Manager) LoadWithReset(ctx context.Context, today datekey.Key) ([]Item, bool) {
	items := m.Load(ctx)
	if m.LastReset(ctx) == today {
		return items, false
	}
	items = Reset(items)
	if err := m.Save(ctx, items); err != nil {
		m.log().Warn("routine reset write failed", zap.Error(err))
	}
	if err := store.WriteJSON(ctx, m.Store, store.KeyRoutineResetOn, today); err != nil {
		m.log().Warn("routine reset day write failed", zap.Error(err))
	}
	m.log().Debug("routine reset", zap.String("day", string(today)))
	return items, true
}

func (m *Manager) log() *zap.Logger {
	if m.Log == nil {
		return zap.NewNop()
	}
	return m.Log
}
