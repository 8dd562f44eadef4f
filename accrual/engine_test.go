package accrual

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ts(y int, m time.Month, d, hour int) *time.Time {
	t := time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
	return &t
}

func testConfig() schedule.Config {
	cfg := schedule.DefaultConfig() // first Sunday 2025-12-14
	cfg.TotalWeeks = 4
	return cfg
}

func calendarFixture() map[int]models.StudyDay {
	return map[int]models.StudyDay{
		1: {ID: 1, Date: date(2025, time.December, 8), Subject: "Matemática"},
		2: {ID: 2, Date: date(2025, time.December, 9), Subject: "Linguagens"},
		3: {ID: 3, Date: date(2025, time.December, 10), Subject: "Humanas"},
		4: {ID: 4, Date: date(2025, time.December, 11), Subject: "Natureza"},
	}
}

func TestRecoveredDayCoinsAndStreak(t *testing.T) {
	// A day scheduled 2025-12-09 completed on 2025-12-11: 30 coins,
	// counted as activity, but worth nothing to the streak.
	cfg := testConfig()
	progress := []models.Progress{
		{ID: 1, DayID: 2, Completed: true, FirstCompletedAt: ts(2025, time.December, 11, 10)},
	}

	stats := Recompute(cfg, progress, calendarFixture(), nil, date(2025, time.December, 11), 0)

	assert.Equal(t, 30, stats.TotalCoins)
	assert.Equal(t, 1, stats.DaysCompleted)
	assert.Equal(t, 0, stats.CurrentStreak)
}

func TestOnTimeStreakAccrual(t *testing.T) {
	cfg := testConfig()
	progress := []models.Progress{
		{ID: 1, DayID: 1, Completed: true, FirstCompletedAt: ts(2025, time.December, 8, 20)},
		{ID: 2, DayID: 2, Completed: true, FirstCompletedAt: ts(2025, time.December, 9, 21)},
		{ID: 3, DayID: 3, Completed: true, FirstCompletedAt: ts(2025, time.December, 10, 19)},
	}

	stats := Recompute(cfg, progress, calendarFixture(), nil, date(2025, time.December, 10), 0)

	assert.Equal(t, 150, stats.TotalCoins)
	assert.Equal(t, 3, stats.DaysCompleted)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.BestStreak)
	require.NotNil(t, stats.LastStudyDay)
	assert.Equal(t, date(2025, time.December, 10), *stats.LastStudyDay)
}

func TestStreakDiesAfterOneMissedDay(t *testing.T) {
	cfg := testConfig()
	progress := []models.Progress{
		{ID: 1, DayID: 1, Completed: true, FirstCompletedAt: ts(2025, time.December, 8, 20)},
		{ID: 2, DayID: 2, Completed: true, FirstCompletedAt: ts(2025, time.December, 9, 21)},
	}

	// Two days later the chain is broken even though history is intact.
	stats := Recompute(cfg, progress, calendarFixture(), nil, date(2025, time.December, 11), 2)

	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 2, stats.BestStreak, "best streak must survive the break")
	assert.Equal(t, 100, stats.TotalCoins)
}

func TestStreakLiveOnYesterday(t *testing.T) {
	cfg := testConfig()
	progress := []models.Progress{
		{ID: 1, DayID: 3, Completed: true, FirstCompletedAt: ts(2025, time.December, 10, 19)},
	}

	stats := Recompute(cfg, progress, calendarFixture(), nil, date(2025, time.December, 11), 0)
	assert.Equal(t, 1, stats.CurrentStreak, "on-time day yesterday keeps the streak live")
}

func TestOverdueExamCatchUpCredit(t *testing.T) {
	// Week 1 deadline is Sunday 2025-12-14; finalizing on 12-16 excuses
	// 12-15 and 12-16 at 30 coins each, plus floor(score/10) bonus.
	cfg := testConfig()
	exams := []models.ExamSession{
		{ID: "x1", Week: 1, Status: models.ExamFinalized, Score: 800,
			FinalizedAt: ts(2025, time.December, 16, 15)},
	}

	stats := Recompute(cfg, nil, calendarFixture(), exams, date(2025, time.December, 16), 0)

	assert.Equal(t, 2, stats.DaysCompleted)
	assert.Equal(t, 30+30+80, stats.TotalCoins)
	assert.Equal(t, 0, stats.CurrentStreak, "catch-up days never count toward the streak")
}

func TestOverdueExamSkipsExistingActivityDays(t *testing.T) {
	cfg := testConfig()
	progress := []models.Progress{
		// Day recovered on 12-15: that date is already an activity day.
		{ID: 1, DayID: 2, Completed: true, FirstCompletedAt: ts(2025, time.December, 15, 9)},
	}
	exams := []models.ExamSession{
		{ID: "x1", Week: 1, Status: models.ExamFinalized, Score: 500,
			FinalizedAt: ts(2025, time.December, 16, 15)},
	}

	stats := Recompute(cfg, progress, calendarFixture(), exams, date(2025, time.December, 16), 0)

	// 30 (recovered day) + 30 (catch-up 12-16 only) + 50 bonus.
	assert.Equal(t, 110, stats.TotalCoins)
	assert.Equal(t, 2, stats.DaysCompleted)
}

func TestOnTimeExamAddsDeadlineActivityWithoutExtraCoins(t *testing.T) {
	cfg := testConfig()
	exams := []models.ExamSession{
		{ID: "x1", Week: 1, Status: models.ExamFinalized, Score: 1000,
			FinalizedAt: ts(2025, time.December, 14, 20)},
	}

	stats := Recompute(cfg, nil, calendarFixture(), exams, date(2025, time.December, 14), 0)

	assert.Equal(t, 100, stats.TotalCoins, "only the exam bonus, no day coins")
	assert.Equal(t, 1, stats.DaysCompleted)
	assert.Equal(t, 1, stats.CurrentStreak, "on-time exam Sunday counts toward the streak")
}

func TestZeroActivityPreservesBestStreak(t *testing.T) {
	cfg := testConfig()

	stats := Recompute(cfg, nil, calendarFixture(), nil, date(2025, time.December, 16), 7)

	assert.Equal(t, 0, stats.DaysCompleted)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 0, stats.TotalCoins)
	assert.Equal(t, 7, stats.BestStreak)
	assert.Nil(t, stats.LastStudyDay)
}

func TestRecomputeIsPureAndIdempotent(t *testing.T) {
	cfg := testConfig()
	progress := []models.Progress{
		{ID: 1, DayID: 1, Completed: true, FirstCompletedAt: ts(2025, time.December, 8, 20)},
		{ID: 2, DayID: 2, Completed: true, FirstCompletedAt: ts(2025, time.December, 12, 21)},
	}
	exams := []models.ExamSession{
		{ID: "x1", Week: 1, Status: models.ExamFinalized, Score: 730,
			FinalizedAt: ts(2025, time.December, 16, 15)},
	}
	today := date(2025, time.December, 17)

	first := Recompute(cfg, progress, calendarFixture(), exams, today, 0)
	second := Recompute(cfg, progress, calendarFixture(), exams, today, first.BestStreak)

	assert.Equal(t, first.TotalCoins, second.TotalCoins, "re-running with no new data must not double-count")
	assert.Equal(t, first.DaysCompleted, second.DaysCompleted)
	assert.Equal(t, first.CurrentStreak, second.CurrentStreak)
	assert.Equal(t, first.BestStreak, second.BestStreak)
}

func TestBestStreakNeverDecreases(t *testing.T) {
	cfg := testConfig()
	progress := []models.Progress{
		{ID: 1, DayID: 4, Completed: true, FirstCompletedAt: ts(2025, time.December, 11, 20)},
	}

	stats := Recompute(cfg, progress, calendarFixture(), nil, date(2025, time.December, 11), 5)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 5, stats.BestStreak)
}

func TestNilFirstCompletedAtIsSkipped(t *testing.T) {
	cfg := testConfig()
	progress := []models.Progress{
		{ID: 1, DayID: 1, Completed: true, FirstCompletedAt: nil},
	}

	stats := Recompute(cfg, progress, calendarFixture(), nil, date(2025, time.December, 10), 0)
	assert.Equal(t, 0, stats.TotalCoins)
	assert.Equal(t, 0, stats.DaysCompleted)
}

func TestExamBonus(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{0, 0},
		{99, 9},
		{730, 73},
		{1000, 100},
	}
	for _, tt := range tests {
		if got := ExamBonus(tt.score); got != tt.want {
			t.Errorf("ExamBonus(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}
