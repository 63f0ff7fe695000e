package options

import (
	"testing"

	"tableflip.dev/ondeck/pkg/classify"
	"tableflip.dev/ondeck/pkg/datekey"
)

func TestParseDay(t *testing.T) {
	const today datekey.Key = "2024-06-15"
	cases := map[string]datekey.Key{
		"":           "",
		"none":       "",
		"today":      today,
		"Tomorrow":   "2024-06-16",
		"2024-7-4":   "2024-07-04",
		"2024-07-04": "2024-07-04",
		"7/4":        "2024-07-04",
		"1/3":        "2025-01-03",
	}
	for in, want := range cases {
		got, err := ParseDay(in, today)
		if err != nil {
			t.Fatalf("ParseDay(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseDay(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseDay("next week", today); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDumpBucket(t *testing.T) {
	o := &DumpOptions{Today: true}
	if b, err := o.Bucket(); err != nil || b != classify.Today {
		t.Fatalf("Bucket() = %q, %v", b, err)
	}
	o.Later = true
	if _, err := o.Bucket(); err == nil {
		t.Fatalf("expected exclusive flag error")
	}
}

func TestSinceDays(t *testing.T) {
	o := &SinceOptions{Since: "2w"}
	days, _, err := o.Days()
	if err != nil || days != 14 {
		t.Fatalf("Days() = %d, %v", days, err)
	}
	o.All = true
	if days, _, _ := o.Days(); days != 0 {
		t.Fatalf("Days() with --all = %d", days)
	}
}
