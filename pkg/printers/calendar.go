package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/ondeck/pkg/archive"
	"tableflip.dev/ondeck/pkg/datekey"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar prints the month containing on, highlighting the days with at
// least one archived completion.
func (pp *PrettyPrint) Calendar(on datekey.Key, entries ...archive.Entry) {
	then := on.Time()
	if then.IsZero() {
		return
	}
	pp.PrintMonthCount(then, MonthCounts(then, entries))
}

// MonthCounts counts archived completions per day of the month of then.
func MonthCounts(then time.Time, entries []archive.Entry) []int {
	count := make([]int, DaysIn(then))
	for _, e := range entries {
		t := e.Completed.Time()
		if t.IsZero() || t.Year() != then.Year() || t.Month() != then.Month() {
			continue
		}
		count[t.Day()-1]++
	}
	return count
}

func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	w := pp.out()
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := then.Month().String()
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	days := DaysIn(then)

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(w, "   ")
	}

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)

	for i := 0; i < days; i++ {
		if i < len(count) && count[i] > 0 {
			_, _ = l2.Fprintf(w, "%2d ", i+1)
		} else {
			_, _ = l1.Fprintf(w, "%2d ", i+1)
		}

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(w, "\n")
		}
	}
	_, _ = fmt.Fprint(w, "\n\n")
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 1, 0, 0, 0, time.UTC).Weekday()
}
