package filter

import (
	"fmt"
	"time"
)

// TimeRange is an inclusive calendar-date window. Both bounds participate in
// comparisons; a timestamp anywhere on the end date is still inside.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange builds a TimeRange from two dates. Times of day are discarded
// and both bounds are normalized to UTC midnight.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	s := truncateToDate(start)
	e := truncateToDate(end)
	if e.Before(s) {
		return TimeRange{}, fmt.Errorf("time range start %s is after end %s",
			s.Format("2006-01-02"), e.Format("2006-01-02"))
	}
	return TimeRange{Start: s, End: e}, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the window, inclusive on both
// bounds.
func (r TimeRange) Contains(t time.Time) bool {
	d := truncateToDate(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// OverlapsYear reports whether any day of the given calendar year falls
// inside the window.
func (r TimeRange) OverlapsYear(year int) bool {
	return year >= r.Start.Year() && year <= r.End.Year()
}

// OverlapsMonths reports whether the month interval [startMonth, endMonth] of
// the given year overlaps the window.
func (r TimeRange) OverlapsMonths(year int, startMonth, endMonth time.Month) bool {
	first := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the following month is the last day of endMonth.
	last := time.Date(year, endMonth+1, 0, 0, 0, 0, 0, time.UTC)
	return !last.Before(r.Start) && !first.After(r.End)
}
