// Package accrual turns raw progress and exam records into the student's
// stats: completed-day count, streaks and the coin balance. Recompute is a
// pure function so the cached statistics row can always be rebuilt from
// scratch; it is never patched incrementally.
package accrual

import (
	"sort"
	"time"

	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
)

// Coin payout tiers.
const (
	CoinsOnTimeDay    = 50 // day completed on its scheduled date
	CoinsRecoveredDay = 30 // day caught up later, or a gap day excused by an overdue exam
)

// ExamBonus is the performance bonus for one finalized exam.
func ExamBonus(score int) int {
	return score / 10
}

// Recompute derives Stats from completed progress records and finalized exam
// sessions as of today. storedBest is the previously persisted best streak;
// the result's BestStreak only ever ratchets forward from it, and it is
// preserved even when the activity set is empty.
func Recompute(cfg schedule.Config, progress []models.Progress, days map[int]models.StudyDay, exams []models.ExamSession, today time.Time, storedBest int) models.Stats {
	activity := make(map[time.Time]bool) // every activity date
	onTime := make(map[time.Time]bool)   // subset that counts toward the streak
	coins := 0

	// Study days: each progress record contributes coins exactly once.
	for _, p := range progress {
		if !p.Completed || p.FirstCompletedAt == nil {
			continue
		}
		day, ok := days[p.DayID]
		if !ok {
			continue
		}
		completed := schedule.DateOnly(*p.FirstCompletedAt)
		scheduled := schedule.DateOnly(day.Date)

		if completed.After(scheduled) {
			coins += CoinsRecoveredDay
		} else {
			coins += CoinsOnTimeDay
			onTime[completed] = true
		}
		activity[completed] = true
	}

	// Exams: performance bonus always, catch-up credit when finalized late.
	for _, e := range exams {
		if e.Status != models.ExamFinalized || e.FinalizedAt == nil {
			continue
		}
		coins += ExamBonus(e.Score)

		deadline := cfg.Deadline(e.Week)
		deadlineDate := schedule.DateOnly(deadline)
		if e.FinalizedAt.After(deadline) {
			// Every gap day between the missed Sunday (exclusive) and the
			// late finalization (inclusive) is retroactively excused.
			finalDate := schedule.DateOnly(*e.FinalizedAt)
			for d := deadlineDate.AddDate(0, 0, 1); !d.After(finalDate); d = d.AddDate(0, 0, 1) {
				if !activity[d] {
					activity[d] = true
					coins += CoinsRecoveredDay
				}
			}
		} else {
			if !activity[deadlineDate] {
				activity[deadlineDate] = true
			}
			onTime[deadlineDate] = true
		}
	}

	stats := models.Stats{BestStreak: storedBest}
	if len(activity) == 0 {
		// No activity at all: everything else resets to zero, but the best
		// streak is a historical record and survives.
		return stats
	}

	stats.DaysCompleted = len(activity)
	stats.TotalCoins = coins
	stats.CurrentStreak = currentStreak(onTime, today)
	if stats.CurrentStreak > stats.BestStreak {
		stats.BestStreak = stats.CurrentStreak
	}
	last := latestDate(activity)
	stats.LastStudyDay = &last
	return stats
}

// currentStreak counts consecutive on-time days ending at today or yesterday.
// Recovered days never extend a streak: catching up keeps the coins, not the
// chain.
func currentStreak(onTime map[time.Time]bool, today time.Time) int {
	if len(onTime) == 0 {
		return 0
	}
	dates := make([]time.Time, 0, len(onTime))
	for d := range onTime {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	todayDate := schedule.DateOnly(today)
	latest := dates[0]
	if latest.Before(todayDate.AddDate(0, 0, -1)) {
		// Streak is dead: the last on-time day is older than yesterday.
		return 0
	}

	streak := 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Equal(dates[i-1].AddDate(0, 0, -1)) {
			streak++
			continue
		}
		break
	}
	return streak
}

func latestDate(set map[time.Time]bool) time.Time {
	var latest time.Time
	for d := range set {
		if d.After(latest) {
			latest = d
		}
	}
	return latest
}
