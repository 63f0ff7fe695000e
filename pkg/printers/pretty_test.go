package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/ondeck/pkg/app"
	"tableflip.dev/ondeck/pkg/archive"
	"tableflip.dev/ondeck/pkg/backlog"
	"tableflip.dev/ondeck/pkg/classify"
	"tableflip.dev/ondeck/pkg/datekey"
	"tableflip.dev/ondeck/pkg/glyph"
	"tableflip.dev/ondeck/pkg/ondeck"
	"tableflip.dev/ondeck/pkg/routine"
)

const today datekey.Key = "2024-06-15"

func newPrinter(t *testing.T) (*PrettyPrint, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
	var buf bytes.Buffer
	return &PrettyPrint{Out: &buf}, &buf
}

func TestTaskBullet(t *testing.T) {
	cases := map[string]struct {
		task ondeck.Task
		want glyph.Bullet
	}{
		"up next": {ondeck.Task{Title: "a"}, glyph.Task},
		"focus":   {ondeck.Task{Title: "a", Plan: ondeck.PlanToday}, glyph.Focus},
		"overdue": {ondeck.Task{Title: "a", Plan: ondeck.PlanToday, Due: "2024-06-01"}, glyph.Overdue},
		"done":    {ondeck.Task{Title: "a", Done: true}, glyph.Completed},
	}
	for name, tc := range cases {
		if got := TaskBullet(tc.task, today); got != tc.want {
			t.Fatalf("%s: got %v, want %v", name, got, tc.want)
		}
	}
}

func TestTasks(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.Tasks(today,
		ondeck.Task{ID: 1, Title: "Pay rent", Category: classify.Admin, Due: today, Plan: ondeck.PlanToday},
		ondeck.Task{ID: 2, Title: "Call mom"},
	)
	out := buf.String()
	if !strings.Contains(out, "  1 ✷ Pay rent  Admin · due today") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "  2 ● Call mom\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestTasksNone(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.Tasks(today)
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected none, got %q", buf.String())
	}
}

func TestBacklogShowsShortIDs(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.ShowID = true
	pp.Backlog(backlog.Item{ID: "0123456789abcdef", Title: "Fix fence", Category: classify.Home})
	out := buf.String()
	if !strings.Contains(out, "01234567") || strings.Contains(out, "89abcdef") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Fix fence") {
		t.Fatalf("missing title:\n%s", out)
	}
}

func TestRoutineProgress(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.Routine(routine.Item{ID: 1, Title: "Stretch", Done: true}, routine.Item{ID: 2, Title: "Water"})
	if !strings.Contains(buf.String(), "1 of 2 done") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	pp.Routine(routine.Item{ID: 1, Title: "Stretch", Done: true})
	if !strings.Contains(buf.String(), "Routine complete") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestArchive(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.Archive(archive.Group{Day: today, Rows: []archive.Entry{{ID: "1", Title: "Pay rent"}}})
	out := buf.String()
	if !strings.Contains(out, "Saturday, June 15, 2024 - 1 task") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "✘ Pay rent") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestDraftsAndReview(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.Drafts(app.Draft{Title: "Call mom today", Category: classify.Calls, Bucket: classify.Today})
	if !strings.Contains(buf.String(), "today") || !strings.Contains(buf.String(), "Call mom today") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	pp.Review(app.ReviewResult{OnDeck: []ondeck.Task{{Title: "a"}}, Dropped: []app.Draft{{Title: "b"}}})
	if got := buf.String(); got != "1 on deck, 0 for later, 1 already listed\n" {
		t.Fatalf("Review = %q", got)
	}
}

func TestMonthCounts(t *testing.T) {
	then := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)
	counts := MonthCounts(then, []archive.Entry{
		{Completed: "2024-06-15"},
		{Completed: "2024-06-15"},
		{Completed: "2024-05-31"},
	})
	if len(counts) != 30 {
		t.Fatalf("June has %d days", len(counts))
	}
	if counts[14] != 2 {
		t.Fatalf("June 15 count = %d", counts[14])
	}
}

func TestDaysIn(t *testing.T) {
	if got := DaysIn(time.Date(2024, time.February, 10, 0, 0, 0, 0, time.Local)); got != 29 {
		t.Fatalf("DaysIn(Feb 2024) = %d", got)
	}
}

func TestSnapshot(t *testing.T) {
	pp, buf := newPrinter(t)
	pp.Snapshot(app.Snapshot{
		Today:          today,
		TodayFocus:     []ondeck.Task{{ID: 1, Title: "Pay rent", Plan: ondeck.PlanToday}},
		Later:          []backlog.Item{{ID: "x", Title: "Fix fence"}},
		CompletedToday: 3,
	})
	out := buf.String()
	for _, want := range []string{"Today's Focus - 1 task", "Up Next - 0 tasks", "Daily Routine", "3 completed today · 1 saved for later"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
