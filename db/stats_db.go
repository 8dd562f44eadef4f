package db

import (
	"database/sql"
	"time"

	"github.com/richardgms/guia-enem-2026-sub000/accrual"
	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

// GetCachedStats reads the statistics projection. Returns nil when the user
// was never computed; a missing cache is not an error.
func (db *DB) GetCachedStats(userID int) (*models.Stats, error) {
	var s models.Stats
	var lastStudyDay sql.NullTime

	err := db.QueryRow(`
        SELECT user_id, days_completed, current_streak, best_streak, total_coins, last_study_day, updated_at
        FROM statistics WHERE user_id = ?
    `, userID).Scan(&s.UserID, &s.DaysCompleted, &s.CurrentStreak, &s.BestStreak, &s.TotalCoins, &lastStudyDay, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		utils.LogError("GetCachedStats(%d) failed: %v", userID, err)
		return nil, err
	}

	if lastStudyDay.Valid {
		t := lastStudyDay.Time
		s.LastStudyDay = &t
	}
	return &s, nil
}

// RecomputeStats rebuilds the user's stats from the raw progress and exam
// records and overwrites the cached row wholesale. The cache is never patched
// incrementally; either the full replacement lands or nothing does.
func (db *DB) RecomputeStats(userID int, cfg schedule.Config, now time.Time) (*models.Stats, error) {
	start := time.Now()

	progress, err := db.ListProgress(userID)
	if err != nil {
		return nil, err
	}
	days, err := db.StudyDayMap()
	if err != nil {
		return nil, err
	}
	exams, err := db.ListFinalizedSessions(userID)
	if err != nil {
		return nil, err
	}

	storedBest := 0
	if cached, err := db.GetCachedStats(userID); err != nil {
		return nil, err
	} else if cached != nil {
		storedBest = cached.BestStreak
	}

	stats := accrual.Recompute(cfg, progress, days, exams, now, storedBest)
	stats.UserID = userID
	stats.UpdatedAt = now

	var lastStudyDay interface{}
	if stats.LastStudyDay != nil {
		lastStudyDay = *stats.LastStudyDay
	}

	_, err = db.Exec(`
        INSERT INTO statistics (user_id, days_completed, current_streak, best_streak, total_coins, last_study_day, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET
            days_completed = excluded.days_completed,
            current_streak = excluded.current_streak,
            best_streak = excluded.best_streak,
            total_coins = excluded.total_coins,
            last_study_day = excluded.last_study_day,
            updated_at = excluded.updated_at
    `, userID, stats.DaysCompleted, stats.CurrentStreak, stats.BestStreak, stats.TotalCoins, lastStudyDay, now)
	if err != nil {
		utils.LogError("RecomputeStats(%d) cache write failed: %v", userID, err)
		return nil, err
	}

	utils.LogStats("Stats recomputed for user %d: %d days, streak %d (best %d), %d coins (%v)",
		userID, stats.DaysCompleted, stats.CurrentStreak, stats.BestStreak, stats.TotalCoins, time.Since(start))
	return &stats, nil
}

// CoinBalance returns the spendable balance: accrued coins minus redemptions.
func (db *DB) CoinBalance(userID int, cfg schedule.Config, now time.Time) (int, error) {
	stats, err := db.RecomputeStats(userID, cfg, now)
	if err != nil {
		return 0, err
	}

	var spent int
	err = db.QueryRow(`
        SELECT COALESCE(SUM(r.cost), 0)
        FROM redemptions rd JOIN rewards r ON rd.reward_id = r.id
        WHERE rd.user_id = ?
    `, userID).Scan(&spent)
	if err != nil {
		utils.LogError("CoinBalance(%d) failed to sum redemptions: %v", userID, err)
		return 0, err
	}

	return stats.TotalCoins - spent, nil
}
