package energy

import "time"

// DefaultWindowDays is the lookback used when a caller does not pick one.
const DefaultWindowDays = 30

// Window is a rolling lookback period ending now.
type Window struct {
	Days int
}

// NewWindow returns a window of days, falling back to DefaultWindowDays for
// non-positive values.
func NewWindow(days int) Window {
	if days <= 0 {
		days = DefaultWindowDays
	}
	return Window{Days: days}
}

// Since returns the inclusive lower bound of the window relative to now.
func (w Window) Since(now time.Time) time.Time {
	days := w.Days
	if days <= 0 {
		days = DefaultWindowDays
	}
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}
