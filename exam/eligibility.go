package exam

import (
	"time"

	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
)

// StudiedDays counts the distinct calendar dates with a completed study day
// inside the given week's range.
func StudiedDays(cfg schedule.Config, week int, progress []models.Progress) int {
	start, end := cfg.WeekRange(week)
	seen := make(map[time.Time]bool)
	for _, p := range progress {
		if !p.Completed || p.FirstCompletedAt == nil {
			continue
		}
		if schedule.InRange(*p.FirstCompletedAt, start, end) {
			seen[schedule.DateOnly(*p.FirstCompletedAt)] = true
		}
	}
	return len(seen)
}

// OverdueWeek returns the earliest week whose deadline has passed without a
// finalized session, or 0 when the student is caught up. Only one overdue
// week is surfaced at a time: catch-up is sequential.
func OverdueWeek(cfg schedule.Config, exams []models.ExamSession, today time.Time) int {
	finalized := make(map[int]bool, len(exams))
	for _, e := range exams {
		if e.Status == models.ExamFinalized {
			finalized[e.Week] = true
		}
	}
	for _, week := range cfg.ExamWeeks() {
		if cfg.Deadline(week).After(today) {
			break
		}
		if !finalized[week] {
			return week
		}
	}
	return 0
}

// Evaluate derives the eligibility view for today: the current week, the
// studied-day count against the threshold, the earliest overdue week and any
// active session.
func Evaluate(cfg schedule.Config, progress []models.Progress, exams []models.ExamSession, active *models.ExamSession, today time.Time) models.Eligibility {
	week := cfg.CurrentWeek(today)
	studied := StudiedDays(cfg, week, progress)

	elig := models.Eligibility{
		Week:         week,
		StudiedDays:  studied,
		RequiredDays: cfg.RequiredStudyDays,
		Eligible:     studied >= cfg.RequiredStudyDays,
		OverdueWeek:  OverdueWeek(cfg, exams, today),
	}
	if active != nil {
		elig.ActiveSessionID = active.ID
	}
	return elig
}

// StartWeek picks the week a new session should target: the earliest overdue
// week takes priority over the current one.
func StartWeek(cfg schedule.Config, exams []models.ExamSession, today time.Time) int {
	if overdue := OverdueWeek(cfg, exams, today); overdue != 0 {
		return overdue
	}
	return cfg.CurrentWeek(today)
}
