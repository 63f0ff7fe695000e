package printers

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/ondeck/pkg/app"
	"tableflip.dev/ondeck/pkg/classify"
	"tableflip.dev/ondeck/pkg/glyph"
)

// Drafts prints classified lines awaiting confirmation.
func (pp *PrettyPrint) Drafts(drafts ...app.Draft) {
	if len(drafts) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)
	n := color.New(color.FgHiYellow, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", bold.Sprint("Bucket"), bold.Sprint("Category"), bold.Sprint("Title"))
	for i, d := range drafts {
		bucket := glyph.Later.String() + " later"
		if d.Bucket == classify.Today {
			bucket = glyph.Focus.String() + " today"
		}
		tbl.AddRow(n.Sprintf("%d", i+1), bucket, string(d.Category), d.Title)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Review prints where confirmed drafts went.
func (pp *PrettyPrint) Review(res app.ReviewResult) {
	c := color.New(color.Faint)
	_, _ = c.Fprintf(pp.out(), "%d on deck, %d for later", len(res.OnDeck), len(res.Later))
	if len(res.Dropped) > 0 {
		_, _ = c.Fprintf(pp.out(), ", %d already listed", len(res.Dropped))
	}
	if n := len(res.Surfaced.Promoted); n > 0 {
		_, _ = c.Fprintf(pp.out(), ", %d due now", n)
	}
	_, _ = c.Fprintln(pp.out(), "")
}

// Recap prints the daily summary.
func (pp *PrettyPrint) Recap(r app.Recap) {
	pp.Title("Recap for " + r.Today.Time().Format("Monday, January 2"))

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(r.CompletedToday), "completed today")
	tbl.AddRow(r.ArchivedToday, "tasks archived")
	tbl.AddRow(fmt.Sprintf("%d/%d", r.RoutineDone, r.RoutineTotal), "routine steps")
	tbl.AddRow(r.OpenToday, "open in today's focus")
	tbl.AddRow(r.OpenUpNext, "open up next")
	tbl.AddRow(r.Backlog, "saved for later")
	tbl.AddRow(r.DueLater, "later with a due day")
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Key prints the glyph legend.
func (pp *PrettyPrint) Key() {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Glyph"), bold.Sprint("Meaning"))
	for _, g := range glyph.DefaultGlyphs() {
		if g.Symbol == "" {
			continue
		}
		tbl.AddRow(g.Symbol, g.Meaning)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Snapshot prints the on-deck lists, the routine and a completion footer.
func (pp *PrettyPrint) Snapshot(snap app.Snapshot) {
	pp.TitleWithCount("Today's Focus", len(snap.TodayFocus), "task")
	pp.Tasks(snap.Today, snap.TodayFocus...)
	pp.TitleWithCount("Up Next", len(snap.UpNext), "task")
	pp.Tasks(snap.Today, snap.UpNext...)
	pp.Title("Daily Routine")
	pp.Routine(snap.Routine...)

	f := color.New(color.Faint)
	_, _ = f.Fprintf(pp.out(), "%d completed today", snap.CompletedToday)
	if n := len(snap.Later); n > 0 {
		_, _ = f.Fprintf(pp.out(), " · %d saved for later", n)
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}
