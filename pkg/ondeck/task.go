// Package ondeck owns the active task list, split into Today-Focus and
// Up-Next.
//
// Task.ID is positional: it is reassigned by Reindex after every insert or
// delete and is only meaningful inside one loaded snapshot. Never persist it
// as an identity or compare it across loads.
package ondeck

import (
	"sort"
	"strings"

	"tableflip.dev/ondeck/pkg/classify"
	"tableflip.dev/ondeck/pkg/datekey"
)

// Plan places an open task in Today-Focus or Up-Next. The empty plan means
// Up-Next.
type Plan string

const (
	PlanToday  Plan = "today"
	PlanUpNext Plan = "upnext"
)

// Task is an on-deck item.
type Task struct {
	ID       int               `json:"id"`
	Title    string            `json:"title"`
	Done     bool              `json:"done"`
	Category classify.Category `json:"category,omitempty"`
	Due      datekey.Key       `json:"dueDateKey,omitempty"`
	Plan     Plan              `json:"plan,omitempty"`
}

// IsToday reports whether t is in Today-Focus.
func (t Task) IsToday() bool {
	return t.Plan == PlanToday
}

// Overdue reports whether t was due before today.
func (t Task) Overdue(today datekey.Key) bool {
	return !t.Due.IsZero() && t.Due.Before(today)
}

// DueToday reports whether t is due exactly today.
func (t Task) DueToday(today datekey.Key) bool {
	return !t.Due.IsZero() && t.Due == today
}

// NormalizeTitle is the de-duplication key shared by every bucket.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Open is the open set split for display.
type Open struct {
	TodayFocus []Task
	UpNext     []Task
}

// ListOpen returns the not-done tasks split by plan, preserving order.
func ListOpen(tasks []Task) Open {
	var out Open
	for _, t := range tasks {
		if t.Done {
			continue
		}
		if t.IsToday() {
			out.TodayFocus = append(out.TodayFocus, t)
		} else {
			out.UpNext = append(out.UpNext, t)
		}
	}
	return out
}

// SortForDisplay returns a copy of tasks ordered: overdue first, then due
// today, then by ascending due day (missing last), then by title ignoring
// case. The sort is stable. Order is derived for rendering only and is never
// written back.
func SortForDisplay(tasks []Task, today datekey.Key) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ao, bo := a.Overdue(today), b.Overdue(today); ao != bo {
			return ao
		}
		if at, bt := a.DueToday(today), b.DueToday(today); at != bt {
			return at
		}
		if ad, bd := a.Due.OrMax(), b.Due.OrMax(); ad != bd {
			return ad < bd
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
	return out
}

// Reindex assigns ID = position+1 in slice order. It must run after every
// structural change to the list.
func Reindex(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		t.ID = i + 1
		out[i] = t
	}
	return out
}

// Merge prepends the items of incoming whose normalized title is not already
// present in existing (or earlier in incoming) and reindexes the result.
func Merge(incoming, existing []Task) []Task {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, t := range existing {
		seen[NormalizeTitle(t.Title)] = struct{}{}
	}
	fresh := make([]Task, 0, len(incoming))
	for _, t := range incoming {
		key := NormalizeTitle(t.Title)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, t)
	}
	return Reindex(append(fresh, existing...))
}

// Find returns the index of the task with id, or -1.
func Find(tasks []Task, id int) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Promote moves the task with id into Today-Focus. It reports false when no
// such task exists.
func Promote(tasks []Task, id int) ([]Task, bool) {
	i := Find(tasks, id)
	if i < 0 {
		return tasks, false
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	out[i].Plan = PlanToday
	return out, true
}

// Titles returns the normalized titles of tasks.
func Titles(tasks []Task) map[string]struct{} {
	out := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		out[NormalizeTitle(t.Title)] = struct{}{}
	}
	return out
}
