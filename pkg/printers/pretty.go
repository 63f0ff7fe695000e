package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/ondeck/pkg/archive"
	"tableflip.dev/ondeck/pkg/backlog"
	"tableflip.dev/ondeck/pkg/datekey"
	"tableflip.dev/ondeck/pkg/glyph"
	"tableflip.dev/ondeck/pkg/ondeck"
	"tableflip.dev/ondeck/pkg/routine"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

var (
	spacing = strings.Repeat(" ", len("12345678  "))
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, unit string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintf(pp.out(), " %s\n", unit)
	default:
		_, _ = c.Fprintf(pp.out(), " %ss\n", unit)
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Fprint(pp.out(), spacing)
	}
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// TaskBullet picks the glyph for an open on-deck task.
func TaskBullet(t ondeck.Task, today datekey.Key) glyph.Bullet {
	switch {
	case t.Done:
		return glyph.Completed
	case t.Overdue(today):
		return glyph.Overdue
	case t.IsToday():
		return glyph.Focus
	default:
		return glyph.Task
	}
}

// Tasks prints on-deck tasks in the given order. The number in front of each
// row is the id used by `ondeck done` and `ondeck promote`.
func (pp *PrettyPrint) Tasks(today datekey.Key, tasks ...ondeck.Task) {
	if len(tasks) == 0 {
		pp.none()
		return
	}

	t := color.New()
	n := color.New(color.FgHiYellow, color.Faint)
	o := color.New(color.FgRed, color.Bold)
	d := color.New(color.Faint, color.Italic)

	for _, task := range tasks {
		_, _ = n.Fprintf(pp.out(), "%3d ", task.ID)
		b := TaskBullet(task, today)
		if b == glyph.Overdue {
			_, _ = o.Fprintf(pp.out(), "%s ", b)
		} else {
			_, _ = t.Fprintf(pp.out(), "%s ", b)
		}
		_, _ = t.Fprint(pp.out(), task.Title)
		if meta := taskMeta(task, today); meta != "" {
			_, _ = d.Fprintf(pp.out(), "  %s", meta)
		}
		_, _ = t.Fprintln(pp.out(), "")
	}
	_, _ = t.Fprintln(pp.out(), "")
}

func taskMeta(t ondeck.Task, today datekey.Key) string {
	var parts []string
	if t.Category != "" {
		parts = append(parts, string(t.Category))
	}
	switch {
	case t.DueToday(today):
		parts = append(parts, "due today")
	case !t.Due.IsZero():
		parts = append(parts, "due "+t.Due.String())
	}
	return strings.Join(parts, " · ")
}

// Backlog prints deferred items as a table.
func (pp *PrettyPrint) Backlog(items ...backlog.Item) {
	if len(items) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)
	y := color.New(color.FgHiYellow, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	if pp.ShowID {
		tbl.AddRow(bold.Sprint("ID"), "", bold.Sprint("Title"), bold.Sprint("Category"), bold.Sprint("Due"))
	} else {
		tbl.AddRow("", bold.Sprint("Title"), bold.Sprint("Category"), bold.Sprint("Due"))
	}
	for _, it := range items {
		due := it.Due.String()
		if due == "" {
			due = "-"
		}
		if pp.ShowID {
			tbl.AddRow(y.Sprint(ShortID(it.ID)), glyph.Later.String(), it.Title, string(it.Category), due)
		} else {
			tbl.AddRow(glyph.Later.String(), it.Title, string(it.Category), due)
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// ShortID trims a backlog id for display. Commands accept any unique
// prefix.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Routine prints the checklist with a progress line.
func (pp *PrettyPrint) Routine(items ...routine.Item) {
	if len(items) == 0 {
		pp.none()
		return
	}
	t := color.New()
	n := color.New(color.FgHiYellow, color.Faint)
	f := color.New(color.Faint)

	for _, it := range items {
		_, _ = n.Fprintf(pp.out(), "%3d ", it.ID)
		if it.Done {
			_, _ = f.Fprintf(pp.out(), "%s %s\n", glyph.StepDone, it.Title)
			continue
		}
		_, _ = t.Fprintf(pp.out(), "%s %s\n", glyph.Step, it.Title)
	}
	if routine.IsFullyComplete(items) {
		_, _ = color.New(color.FgGreen, color.Bold).Fprintln(pp.out(), "    Routine complete. Nice work!")
	} else {
		_, _ = f.Fprintf(pp.out(), "    %d of %d done\n", routine.DoneCount(items), len(items))
	}
	pp.NewLine()
}

// Archive prints completion groups, newest day first.
func (pp *PrettyPrint) Archive(groups ...archive.Group) {
	if len(groups) == 0 {
		pp.none()
		return
	}
	t := color.New(color.Faint)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	for _, g := range groups {
		pp.TitleWithCount(g.Day.Time().Format("Monday, January 2, 2006"), len(g.Rows), "task")
		for _, e := range g.Rows {
			if pp.ShowID {
				_, _ = y.Fprint(pp.out(), e.ID)
				_, _ = y.Fprint(pp.out(), "  ")
			}
			_, _ = t.Fprintf(pp.out(), "%s %s", glyph.Completed, e.Title)
			if e.Category != "" {
				_, _ = t.Fprintf(pp.out(), "  %s", e.Category)
			}
			_, _ = t.Fprintln(pp.out(), "")
		}
		pp.NewLine()
	}
}
