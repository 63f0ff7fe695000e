// Package datekey converts wall-clock time into canonical local calendar-day
// keys. Every due, completion and reset comparison in ondeck goes through a Key.
package datekey

import (
	"fmt"
	"strings"
	"time"
)

const layoutISO = "2006-01-02"

// Key is a local calendar day formatted as YYYY-MM-DD. Keys order correctly
// under plain string comparison and two keys are the same day iff equal.
type Key string

// Max sorts after every real day. Items without a due date use it as their
// sort key.
const Max Key = "9999-12-31"

// FromTime returns the local calendar day of t.
func FromTime(t time.Time) Key {
	return Key(t.Local().Format(layoutISO))
}

// Parse validates s and returns it as a Key.
func Parse(s string) (Key, error) {
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation(layoutISO, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("datekey: invalid day %q: %w", s, err)
	}
	return FromTime(t), nil
}

// Valid reports whether k is a well formed day.
func (k Key) Valid() bool {
	_, err := time.ParseInLocation(layoutISO, string(k), time.Local)
	return err == nil
}

// IsZero reports whether k is unset.
func (k Key) IsZero() bool {
	return k == ""
}

// Time returns local midnight of k. Invalid keys yield the zero time.
func (k Key) Time() time.Time {
	t, err := time.ParseInLocation(layoutISO, string(k), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the key n calendar days after k.
func (k Key) AddDays(n int) Key {
	t := k.Time()
	if t.IsZero() {
		return k
	}
	return FromTime(t.AddDate(0, 0, n))
}

// Before reports whether k is an earlier day than other.
func (k Key) Before(other Key) bool {
	return k < other
}

// OrMax returns k, or Max when k is unset.
func (k Key) OrMax() Key {
	if k.IsZero() {
		return Max
	}
	return k
}

func (k Key) String() string {
	return string(k)
}

// Clock is the wall-clock source.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to a Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads time.Now.
var SystemClock Clock = ClockFunc(time.Now)

// Today returns the current local day according to c.
func Today(c Clock) Key {
	if c == nil {
		c = SystemClock
	}
	return FromTime(c.Now())
}
