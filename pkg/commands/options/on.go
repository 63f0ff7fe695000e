package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/ondeck/pkg/datekey"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// OnOptions
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a due day, example: --on="2020-2-28", --on="2/28" or --on=tomorrow.`)
}

// GetOn resolves the flag against today. An empty flag yields the zero key.
func (o *OnOptions) GetOn(today datekey.Key) (datekey.Key, error) {
	return ParseDay(o.OnString, today)
}

// ParseDay accepts "today", "tomorrow", ISO days and month/day. A month/day
// that already passed this year means next year.
func ParseDay(s string, today datekey.Key) (datekey.Key, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none":
		return "", nil
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	}

	now := today.Time()
	t, err := time.ParseInLocation(layoutISO, s, time.Local)
	if err != nil {
		// Let the year be the same.
		t, err = time.ParseInLocation(layoutISOShort, s, time.Local)
		if err != nil {
			return "", fmt.Errorf("invalid day %q: use YYYY-M-D, M/D, today or tomorrow", s)
		}
		t = t.AddDate(now.Year(), 0, 0)
		// I am gonna assume if you said 1/3 on 12/5, you meant next year, not 11 months ago.
		if t.Before(now) {
			t = t.AddDate(1, 0, 0)
		}
	}
	return datekey.FromTime(t), nil
}
