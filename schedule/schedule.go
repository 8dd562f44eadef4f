// Package schedule holds the calendar-week arithmetic the whole engine hangs
// off: weeks are anchored to a fixed first Sunday, and every week's exam
// deadline is the Sunday at 23:59:59.
package schedule

import "time"

// Defaults for the 2026 cohort.
const (
	DefaultTotalWeeks        = 10
	DefaultRequiredStudyDays = 4
	DefaultExamDuration      = 50 * time.Minute
)

// DefaultFirstSunday is the week-1 exam deadline for the 2026 cohort.
var DefaultFirstSunday = time.Date(2025, time.December, 14, 0, 0, 0, 0, time.UTC)

// Config anchors the weekly cadence.
type Config struct {
	FirstSunday       time.Time // week-1 deadline, date part only is used
	TotalWeeks        int       // weeks carrying a scheduled exam, 1..TotalWeeks
	RequiredStudyDays int       // study days needed in a week before its exam unlocks
	ExamDuration      time.Duration
}

func DefaultConfig() Config {
	return Config{
		FirstSunday:       DefaultFirstSunday,
		TotalWeeks:        DefaultTotalWeeks,
		RequiredStudyDays: DefaultRequiredStudyDays,
		ExamDuration:      DefaultExamDuration,
	}
}

// DateOnly truncates a timestamp to its calendar date in UTC. All engine
// comparisons happen at this granularity so timezone boundaries never flap.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// CurrentWeek returns the week number today falls in. Everything up to and
// including the first Sunday is week 1; after that,
// week = floor(daysSinceFirstSunday/7) + 2.
func (c Config) CurrentWeek(today time.Time) int {
	d := DateOnly(today)
	fs := DateOnly(c.FirstSunday)
	if !d.After(fs) {
		return 1
	}
	days := int(d.Sub(fs).Hours() / 24)
	return days/7 + 2
}

// Deadline returns week's exam deadline: its Sunday at 23:59:59.
func (c Config) Deadline(week int) time.Time {
	fs := DateOnly(c.FirstSunday)
	sunday := fs.AddDate(0, 0, (week-1)*7)
	return time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, sunday.Location())
}

// WeekRange returns the inclusive date range of days belonging to week, the
// set of dates for which CurrentWeek reports that week. Week 1 runs from six
// days before the first Sunday through the first Sunday itself.
func (c Config) WeekRange(week int) (start, end time.Time) {
	fs := DateOnly(c.FirstSunday)
	if week <= 1 {
		return fs.AddDate(0, 0, -6), fs
	}
	if week == 2 {
		// Week 2 has six days: the first Sunday itself belongs to week 1.
		return fs.AddDate(0, 0, 1), fs.AddDate(0, 0, 6)
	}
	return fs.AddDate(0, 0, (week-2)*7), fs.AddDate(0, 0, (week-1)*7-1)
}

// ExamWeeks enumerates every week carrying a scheduled exam.
func (c Config) ExamWeeks() []int {
	weeks := make([]int, 0, c.TotalWeeks)
	for w := 1; w <= c.TotalWeeks; w++ {
		weeks = append(weeks, w)
	}
	return weeks
}

// InRange reports whether a timestamp's calendar date falls inside the
// inclusive [start, end] date range.
func InRange(t, start, end time.Time) bool {
	d := DateOnly(t)
	return !d.Before(DateOnly(start)) && !d.After(DateOnly(end))
}
