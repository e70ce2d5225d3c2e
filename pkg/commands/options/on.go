package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	layoutMonth    = "2006-1"
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
	layoutShort    = "1"
)

// OnOptions selects the month to show.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Month to show, example: --on="2024-3", --on="2024-3-15", --on="3/15" or --on="3".`)
}

// GetMonth returns the selected year and month. ok is false when --on was not
// given. Short forms without a year use now's year.
func (o *OnOptions) GetMonth(now time.Time) (year int, month time.Month, ok bool, err error) {
	s := strings.TrimSpace(o.OnString)
	if s == "" {
		return 0, 0, false, nil
	}
	for _, layout := range []string{layoutISO, layoutMonth} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), t.Month(), true, nil
		}
	}
	// Let the year be the same.
	for _, layout := range []string{layoutISOShort, layoutShort} {
		if t, err := time.Parse(layout, s); err == nil {
			return now.Year(), t.Month(), true, nil
		}
	}
	return 0, 0, false, fmt.Errorf("invalid --on %q: expected YYYY-M, YYYY-M-D, M/D or M", s)
}
