package weather

import "time"

// MaxWindowDays is the longest forecast window rendered.
const MaxWindowDays = 7

// Window is the run of forecast days anchored at today.
// Days is empty when today was not found in the series.
type Window struct {
	Today time.Time
	Days  []ForecastDay
}

// Found reports whether the window is anchored in the series.
func (w Window) Found() bool {
	return len(w.Days) > 0
}

// SelectWindow returns the longest run of at most MaxWindowDays entries
// starting at the first entry dated today. It returns ErrWindowNotFound,
// along with an empty window, when no entry is dated today.
func SelectWindow(series []ForecastDay, today time.Time) (Window, error) {
	anchor, ok := FindAnchor(series, today)
	if !ok {
		return Window{Today: today}, ErrWindowNotFound
	}
	n := WindowLength(len(series), anchor)
	return Window{Today: today, Days: series[anchor : anchor+n]}, nil
}

// FindAnchor returns the index of the first entry with today's calendar date.
func FindAnchor(series []ForecastDay, today time.Time) (int, bool) {
	key := today.Format(DateLayout)
	for i, d := range series {
		if d.Date.Format(DateLayout) == key {
			return i, true
		}
	}
	return -1, false
}

// WindowLength tries lengths from MaxWindowDays down to 1 and returns the
// first one that fits in the series. It is 0 only for an anchor outside the
// series.
func WindowLength(seriesLen, anchor int) int {
	if anchor < 0 || anchor >= seriesLen {
		return 0
	}
	for n := MaxWindowDays; n > 0; n-- {
		if anchor+n <= seriesLen {
			return n
		}
	}
	return 1
}
