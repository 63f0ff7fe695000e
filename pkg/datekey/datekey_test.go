package datekey

import (
	"testing"
	"time"
)

func TestFromTimeUsesLocalDay(t *testing.T) {
	ts := time.Date(2024, time.March, 2, 23, 59, 0, 0, time.Local)
	if got := FromTime(ts); got != "2024-03-02" {
		t.Fatalf("expected 2024-03-02, got %s", got)
	}
}

func TestParse(t *testing.T) {
	k, err := Parse(" 2024-01-05 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k != "2024-01-05" {
		t.Fatalf("unexpected key %q", k)
	}
	if _, err := Parse("2024-13-01"); err == nil {
		t.Fatalf("expected error for invalid month")
	}
	if _, err := Parse("tomorrow"); err == nil {
		t.Fatalf("expected error for free text")
	}
}

func TestOrderingIsLexical(t *testing.T) {
	past, today, future := Key("2024-01-01"), Key("2024-06-15"), Key("2099-01-01")
	if !past.Before(today) || !today.Before(future) {
		t.Fatalf("expected %s < %s < %s", past, today, future)
	}
	if !future.Before(Key("").OrMax()) {
		t.Fatalf("expected missing day to sort last")
	}
}

func TestAddDaysCrossesMonth(t *testing.T) {
	if got := Key("2024-02-28").AddDays(2); got != "2024-03-01" {
		t.Fatalf("expected 2024-03-01, got %s", got)
	}
	if got := Key("2024-03-01").AddDays(-1); got != "2024-02-29" {
		t.Fatalf("expected 2024-02-29, got %s", got)
	}
}

func TestToday(t *testing.T) {
	c := ClockFunc(func() time.Time { return time.Date(2025, time.July, 4, 8, 0, 0, 0, time.Local) })
	if got := Today(c); got != "2025-07-04" {
		t.Fatalf("expected 2025-07-04, got %s", got)
	}
}

func TestParseSpanDefault(t *testing.T) {
	days, label, err := ParseSpan("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 7 || label != "1w" {
		t.Fatalf("expected 7 days labelled 1w, got %d %s", days, label)
	}
}

func TestParseSpanComposite(t *testing.T) {
	days, label, err := ParseSpan("1w3d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 10 || label != "1w3d" {
		t.Fatalf("expected 10 days labelled 1w3d, got %d %s", days, label)
	}
}

func TestParseSpanInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3h", "0d"} {
		if _, _, err := ParseSpan(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestSpanStart(t *testing.T) {
	if got := SpanStart("2024-03-10", 7); got != "2024-03-04" {
		t.Fatalf("expected 2024-03-04, got %s", got)
	}
	if got := SpanStart("2024-03-10", 1); got != "2024-03-10" {
		t.Fatalf("expected same day, got %s", got)
	}
}
