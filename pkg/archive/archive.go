// Package archive is the append-only log of completed tasks. Entries are
// never edited; undo deletes the entry outright.
package archive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/ondeck/pkg/classify"
	"tableflip.dev/ondeck/pkg/datekey"
	"tableflip.dev/ondeck/pkg/store"
)

// Entry is one completed task.
type Entry struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Category  classify.Category `json:"category,omitempty"`
	Completed datekey.Key       `json:"completedDateKey"`
}

// NewID returns a globally unique entry id: completion time in milliseconds
// plus a random suffix.
func NewID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

// Append returns entries with e in front; the log is most-recent-first.
func Append(entries []Entry, e Entry) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	out = append(out, e)
	return append(out, entries...)
}

// CountForDay counts entries completed on day.
func CountForDay(entries []Entry, day datekey.Key) int {
	n := 0
	for _, e := range entries {
		if e.Completed == day {
			n++
		}
	}
	return n
}

// RemoveByID drops the entry with id. It reports whether one was removed.
func RemoveByID(entries []Entry, id string) ([]Entry, bool) {
	for i, e := range entries {
		if e.ID != id {
			continue
		}
		out := make([]Entry, 0, len(entries)-1)
		out = append(out, entries[:i]...)
		return append(out, entries[i+1:]...), true
	}
	return entries, false
}

// Group holds the entries completed on one day.
type Group struct {
	Day  datekey.Key `json:"dateKey"`
	Rows []Entry     `json:"rows"`
}

// GroupByDay buckets entries by completion day, newest day first. Rows keep
// their original most-recent-first order.
func GroupByDay(entries []Entry) []Group {
	index := make(map[datekey.Key]int)
	var groups []Group
	for _, e := range entries {
		i, ok := index[e.Completed]
		if !ok {
			i = len(groups)
			index[e.Completed] = i
			groups = append(groups, Group{Day: e.Completed})
		}
		groups[i].Rows = append(groups[i].Rows, e)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Day > groups[j].Day
	})
	return groups
}

// Since keeps the groups on or after day.
func Since(groups []Group, day datekey.Key) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if g.Day < day {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Manager loads and saves the archive log.
type Manager struct {
	Store store.Store
	Log   *zap.Logger
}

// Load returns the persisted log, or an empty one when it is missing or
// unreadable.
func (m *Manager) Load(ctx context.Context) []Entry {
	var entries []Entry
	err := store.ReadJSON(ctx, m.Store, store.KeyArchive, &entries)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			m.log().Warn("archive read failed, using empty log", zap.String("key", store.KeyArchive), zap.Error(err))
		}
		return []Entry{}
	}
	return entries
}

// Save writes the whole log.
func (m *Manager) Save(ctx context.Context, entries []Entry) error {
	return store.WriteJSON(ctx, m.Store, store.KeyArchive, entries)
}

// Append loads the log, prepends e and writes it back.
func (m *Manager) Append(ctx context.Context, e Entry) error {
	return m.Save(ctx, Append(m.Load(ctx), e))
}

// RemoveByID loads the log and deletes the entry with id. It reports false,
// without writing, when no such entry exists.
func (m *Manager) RemoveByID(ctx context.Context, id string) (bool, error) {
	rest, ok := RemoveByID(m.Load(ctx), id)
	if !ok {
		return false, nil
	}
	return true, m.Save(ctx, rest)
}

// CountForDay counts persisted entries completed on day.
func (m *Manager) CountForDay(ctx context.Context, day datekey.Key) int {
	return CountForDay(m.Load(ctx), day)
}

func (m *Manager) log() *zap.Logger {
	if m.Log == nil {
		return zap.NewNop()
	}
	return m.Log
}
