// Package backlog owns the "Later" bucket: deferred tasks with stable ids and
// an optional due day.
package backlog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/ondeck/pkg/classify"
	"tableflip.dev/ondeck/pkg/datekey"
	"tableflip.dev/ondeck/pkg/store"
)

// Item is a deferred task.
type Item struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Category classify.Category `json:"category,omitempty"`
	Due      datekey.Key       `json:"dueDateKey,omitempty"`
}

// NewItem returns an item with a fresh stable id.
func NewItem(title string, category classify.Category, due datekey.Key) Item {
	return Item{
		ID:       uuid.NewString(),
		Title:    strings.TrimSpace(title),
		Category: category,
		Due:      due,
	}
}

// Patch is a partial update. Nil fields are left alone; a pointer to the
// empty value clears the field.
type Patch struct {
	Title    *string
	Category *classify.Category
	Due      *datekey.Key
}

// Add appends items without de-duplication; callers filter first.
func Add(items []Item, add ...Item) []Item {
	out := make([]Item, 0, len(items)+len(add))
	out = append(out, items...)
	return append(out, add...)
}

// Update merges p into the item with id. It reports false when id is
// unknown.
func Update(items []Item, id string, p Patch) ([]Item, bool) {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if p.Title != nil {
			out[i].Title = strings.TrimSpace(*p.Title)
		}
		if p.Category != nil {
			out[i].Category = *p.Category
		}
		if p.Due != nil {
			out[i].Due = *p.Due
		}
		return out, true
	}
	return items, false
}

// Remove drops the item with id.
func Remove(items []Item, id string) ([]Item, bool) {
	for i, it := range items {
		if it.ID != id {
			continue
		}
		out := make([]Item, 0, len(items)-1)
		out = append(out, items[:i]...)
		return append(out, items[i+1:]...), true
	}
	return items, false
}

// Find returns the item with id.
func Find(items []Item, id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// MatchPrefix returns the items whose id starts with prefix. An exact id
// match wins over longer ids sharing the prefix.
func MatchPrefix(items []Item, prefix string) []Item {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil
	}
	var out []Item
	for _, it := range items {
		if it.ID == prefix {
			return []Item{it}
		}
		if strings.HasPrefix(it.ID, prefix) {
			out = append(out, it)
		}
	}
	return out
}

// SortedByDue returns a copy ordered by ascending due day (missing last),
// then title ignoring case.
func SortedByDue(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ad, bd := a.Due.OrMax(), b.Due.OrMax(); ad != bd {
			return ad < bd
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
	return out
}

// Surfaced is the result of SurfaceDue.
type Surfaced struct {
	ToPromote []Item
	Remaining []Item
}

// SurfaceDue partitions items due on or before today from the rest. It
// neither reads nor writes storage.
func SurfaceDue(items []Item, today datekey.Key) Surfaced {
	var out Surfaced
	for _, it := range items {
		if !it.Due.IsZero() && it.Due <= today {
			out.ToPromote = append(out.ToPromote, it)
			continue
		}
		out.Remaining = append(out.Remaining, it)
	}
	if out.Remaining == nil {
		out.Remaining = []Item{}
	}
	return out
}

// Manager loads and saves the backlog.
type Manager struct {
	Store store.Store
	Log   *zap.Logger
}

// Load returns the persisted backlog, or an empty one when missing or
// unreadable. Items without an id get one so they stay addressable.
func (m *Manager) Load(ctx context.Context) []Item {
	var items []Item
	err := store.ReadJSON(ctx, m.Store, store.KeyLater, &items)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.log().Warn("backlog read failed, using empty list", zap.String("key", store.KeyLater), zap.Error(err))
		}
		return []Item{}
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if !items[i].Due.IsZero() && !items[i].Due.Valid() {
			m.log().Warn("dropping invalid due day", zap.String("id", items[i].ID), zap.String("due", string(items[i].Due)))
			items[i].Due = ""
		}
	}
	return items
}

// Save writes the whole backlog.
func (m *Manager) Save(ctx context.Context, items []Item) error {
	return store.WriteJSON(ctx, m.Store, store.KeyLater, items)
}

func (m *Manager) log() *zap.Logger {
	if m.Log == nil {
		return zap.NewNop()
	}
	return m.Log
}
