package options

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/ondeck/pkg/classify"
)

// DumpOptions
type DumpOptions struct {
	Yes   bool
	Today bool
	Later bool
}

func AddDumpArgs(cmd *cobra.Command, o *DumpOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		"Save without asking for confirmation.")
	cmd.Flags().BoolVar(&o.Today, "today", false,
		"Send every line to today's focus.")
	cmd.Flags().BoolVar(&o.Later, "later", false,
		"Send every line to the later list.")
}

// Bucket returns the forced bucket, or "" to keep the classifier's guess.
func (o *DumpOptions) Bucket() (classify.Bucket, error) {
	switch {
	case o.Today && o.Later:
		return "", errors.New("--today and --later are exclusive")
	case o.Today:
		return classify.Today, nil
	case o.Later:
		return classify.Later, nil
	}
	return "", nil
}
