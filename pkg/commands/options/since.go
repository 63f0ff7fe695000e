package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/ondeck/pkg/datekey"
)

// SinceOptions selects a trailing window of days.
type SinceOptions struct {
	Since string
	All   bool
}

func AddSinceArgs(cmd *cobra.Command, o *SinceOptions) {
	cmd.Flags().StringVar(&o.Since, "since", datekey.DefaultSpan,
		"Window of days to include (for example 3d, 1w, 2w3d).")
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Include the whole archive.")
}

// Days returns the window in days; zero means everything.
func (o *SinceOptions) Days() (int, string, error) {
	if o.All {
		return 0, "all time", nil
	}
	return datekey.ParseSpan(o.Since)
}
