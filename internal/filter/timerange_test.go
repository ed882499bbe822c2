package filter

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewTimeRange(t *testing.T) {
	if _, err := NewTimeRange(date(2021, 6, 1), date(2021, 1, 1)); err == nil {
		t.Error("expected error for reversed bounds")
	}

	r, err := NewTimeRange(
		time.Date(2021, 1, 1, 15, 30, 0, 0, time.UTC),
		time.Date(2021, 6, 30, 8, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Start.Equal(date(2021, 1, 1)) || !r.End.Equal(date(2021, 6, 30)) {
		t.Errorf("bounds not normalized to dates: %v .. %v", r.Start, r.End)
	}
}

func TestTimeRangeContains(t *testing.T) {
	r, _ := NewTimeRange(date(2021, 1, 1), date(2021, 6, 30))

	tests := []struct {
		name   string
		input  time.Time
		expect bool
	}{
		{name: "inside", input: date(2021, 3, 15), expect: true},
		{name: "start bound inclusive", input: date(2021, 1, 1), expect: true},
		{name: "end bound inclusive", input: date(2021, 6, 30), expect: true},
		{name: "time of day on end bound", input: time.Date(2021, 6, 30, 23, 59, 59, 0, time.UTC), expect: true},
		{name: "day before start", input: date(2020, 12, 31), expect: false},
		{name: "day after end", input: date(2021, 7, 1), expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.input); got != tt.expect {
				t.Errorf("Contains(%v) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

func TestTimeRangeOverlapsYear(t *testing.T) {
	r, _ := NewTimeRange(date(2020, 11, 1), date(2021, 2, 28))

	for year, expect := range map[int]bool{2019: false, 2020: true, 2021: true, 2022: false} {
		if got := r.OverlapsYear(year); got != expect {
			t.Errorf("OverlapsYear(%d) = %v, want %v", year, got, expect)
		}
	}
}

func TestTimeRangeOverlapsMonths(t *testing.T) {
	r, _ := NewTimeRange(date(2021, 1, 15), date(2021, 6, 30))

	tests := []struct {
		name   string
		year   int
		start  time.Month
		end    time.Month
		expect bool
	}{
		{name: "window starts mid interval", year: 2021, start: time.January, end: time.March, expect: true},
		{name: "fully inside", year: 2021, start: time.April, end: time.June, expect: true},
		{name: "after window", year: 2021, start: time.July, end: time.September, expect: false},
		{name: "wrong year", year: 2020, start: time.January, end: time.March, expect: false},
		{name: "interval ends on window start month", year: 2021, start: time.January, end: time.January, expect: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.OverlapsMonths(tt.year, tt.start, tt.end); got != tt.expect {
				t.Errorf("OverlapsMonths(%d, %v, %v) = %v, want %v", tt.year, tt.start, tt.end, got, tt.expect)
			}
		})
	}
}
