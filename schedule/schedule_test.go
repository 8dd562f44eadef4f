package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentWeek(t *testing.T) {
	cfg := DefaultConfig() // first Sunday 2025-12-14

	tests := []struct {
		today time.Time
		want  int
	}{
		{date(2025, time.December, 8), 1},
		{date(2025, time.December, 14), 1},  // the first Sunday itself
		{date(2025, time.December, 15), 2},  // Monday after
		{date(2025, time.December, 20), 2},  // Saturday
		{date(2025, time.December, 21), 3},  // second Sunday
		{date(2025, time.December, 28), 4},  // third Sunday
		{date(2026, time.January, 3), 4},    // Saturday before fourth Sunday
		{date(2025, time.November, 1), 1},   // well before the anchor
	}

	for _, tt := range tests {
		if got := cfg.CurrentWeek(tt.today); got != tt.want {
			t.Errorf("CurrentWeek(%s) = %d, want %d", tt.today.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestDeadline(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		week int
		want time.Time
	}{
		{1, time.Date(2025, time.December, 14, 23, 59, 59, 0, time.UTC)},
		{2, time.Date(2025, time.December, 21, 23, 59, 59, 0, time.UTC)},
		{5, time.Date(2026, time.January, 11, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := cfg.Deadline(tt.week); !got.Equal(tt.want) {
			t.Errorf("Deadline(%d) = %s, want %s", tt.week, got, tt.want)
		}
	}
}

func TestWeekRangeMatchesCurrentWeek(t *testing.T) {
	cfg := DefaultConfig()

	// Every date inside a week's range must report that week, and the range
	// edges must be exact.
	for week := 1; week <= cfg.TotalWeeks; week++ {
		start, end := cfg.WeekRange(week)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if got := cfg.CurrentWeek(d); got != week {
				t.Errorf("CurrentWeek(%s) = %d, want %d (range %s..%s)",
					d.Format("2006-01-02"), got, week,
					start.Format("2006-01-02"), end.Format("2006-01-02"))
			}
		}
		if week > 1 {
			prevStart, prevEnd := cfg.WeekRange(week - 1)
			if !prevEnd.AddDate(0, 0, 1).Equal(start) {
				t.Errorf("week %d range %s..%s does not follow week %d range %s..%s",
					week, start.Format("2006-01-02"), end.Format("2006-01-02"),
					week-1, prevStart.Format("2006-01-02"), prevEnd.Format("2006-01-02"))
			}
		}
	}
}

func TestDateOnlyDiscardsTimeAndZone(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	a := time.Date(2025, time.December, 9, 23, 45, 0, 0, loc)
	b := time.Date(2025, time.December, 9, 1, 0, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Errorf("SameDay(%s, %s) = false, want true", a, b)
	}
	if got := DateOnly(a); !got.Equal(date(2025, time.December, 9)) {
		t.Errorf("DateOnly(%s) = %s", a, got)
	}
}

func TestInRange(t *testing.T) {
	start := date(2025, time.December, 15)
	end := date(2025, time.December, 20)

	if !InRange(date(2025, time.December, 15), start, end) {
		t.Error("start of range should be in range")
	}
	if !InRange(time.Date(2025, time.December, 20, 22, 0, 0, 0, time.UTC), start, end) {
		t.Error("end of range should be in range regardless of time of day")
	}
	if InRange(date(2025, time.December, 21), start, end) {
		t.Error("day after range should not be in range")
	}
}
