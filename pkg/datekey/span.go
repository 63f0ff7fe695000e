package datekey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultSpan is used when no span is given.
const DefaultSpan = "1w"

var (
	spanPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	spanUnits   = map[string]int{
		"d":     1,
		"day":   1,
		"days":  1,
		"w":     7,
		"wk":    7,
		"wks":   7,
		"week":  7,
		"weeks": 7,
	}
)

// ParseSpan parses a day-granular window such as "3d", "2w" or "1w3d" and
// returns the number of days together with a compact canonical label.
func ParseSpan(input string) (int, string, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		remaining = DefaultSpan
	}

	days := 0
	for len(remaining) > 0 {
		m := spanPattern.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return 0, "", fmt.Errorf("datekey: invalid span segment %q", strings.TrimSpace(remaining))
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, "", fmt.Errorf("datekey: invalid span value %q: %w", m[1], err)
		}
		unit, ok := spanUnits[m[2]]
		if !ok {
			return 0, "", fmt.Errorf("datekey: unsupported span unit %q", m[2])
		}
		days += n * unit
		remaining = remaining[len(m[0]):]
	}
	if days <= 0 {
		return 0, "", fmt.Errorf("datekey: span must be at least one day")
	}
	return days, FormatSpan(days), nil
}

// FormatSpan renders days using week and day tokens.
func FormatSpan(days int) string {
	if days <= 0 {
		return "0d"
	}
	var b strings.Builder
	if w := days / 7; w > 0 {
		fmt.Fprintf(&b, "%dw", w)
	}
	if d := days % 7; d > 0 {
		fmt.Fprintf(&b, "%dd", d)
	}
	return b.String()
}

// SpanStart returns the first day included in a window of days ending on
// (and including) today.
func SpanStart(today Key, days int) Key {
	if days <= 1 {
		return today
	}
	return today.AddDays(-(days - 1))
}
