package db

import (
	"database/sql"
	"time"

	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

// SaveProgress upserts a day's completion keyed on (user_id, day_id).
// first_completed_at is set only on the first completed=true save: the
// COALESCE keeps the original value on every later write, so re-saving an
// already-completed day is idempotent.
func (db *DB) SaveProgress(userID int, req models.ProgressRequest, now time.Time) (*models.Progress, error) {
	utils.LogDB("Saving progress: user %d, day %d, completed=%t", userID, req.DayID, req.Completed)
	start := time.Now()

	var firstCompleted interface{}
	if req.Completed {
		firstCompleted = now
	}
	var assessment interface{}
	if req.SelfAssessment != "" {
		assessment = req.SelfAssessment
	}

	_, err := db.Exec(`
        INSERT INTO progress (user_id, day_id, completed, self_assessment, correct_answers, total_questions, first_completed_at, notes, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (user_id, day_id) DO UPDATE SET
            completed = excluded.completed,
            self_assessment = excluded.self_assessment,
            correct_answers = excluded.correct_answers,
            total_questions = excluded.total_questions,
            first_completed_at = COALESCE(progress.first_completed_at, excluded.first_completed_at),
            notes = excluded.notes,
            updated_at = excluded.updated_at
    `, userID, req.DayID, req.Completed, assessment, req.CorrectAnswers, req.TotalQuestions, firstCompleted, req.Notes, now)

	if err != nil {
		utils.LogError("SaveProgress failed for user %d day %d: %v (%v)", userID, req.DayID, err, time.Since(start))
		return nil, err
	}

	utils.LogDB("Progress saved for user %d day %d in %v", userID, req.DayID, time.Since(start))
	return db.GetProgress(userID, req.DayID)
}

// GetProgress returns one record, or nil when the day was never touched.
func (db *DB) GetProgress(userID, dayID int) (*models.Progress, error) {
	row := db.QueryRow(`
        SELECT id, user_id, day_id, completed, self_assessment, correct_answers, total_questions, first_completed_at, notes, updated_at
        FROM progress WHERE user_id = ? AND day_id = ?
    `, userID, dayID)

	p, err := scanProgress(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		utils.LogError("GetProgress(%d, %d) failed: %v", userID, dayID, err)
		return nil, err
	}
	return p, nil
}

// ListProgress returns every progress record of the user.
func (db *DB) ListProgress(userID int) ([]models.Progress, error) {
	rows, err := db.Query(`
        SELECT id, user_id, day_id, completed, self_assessment, correct_answers, total_questions, first_completed_at, notes, updated_at
        FROM progress WHERE user_id = ? ORDER BY day_id
    `, userID)
	if err != nil {
		utils.LogError("ListProgress(%d) failed: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var records []models.Progress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			utils.LogError("Failed to scan progress row: %v", err)
			return nil, err
		}
		records = append(records, *p)
	}
	return records, rows.Err()
}

// ProgressMap returns the user's records keyed by day ID, the shape the
// attendance classifier consumes.
func (db *DB) ProgressMap(userID int) (map[int]models.Progress, error) {
	records, err := db.ListProgress(userID)
	if err != nil {
		return nil, err
	}
	byDay := make(map[int]models.Progress, len(records))
	for _, p := range records {
		byDay[p.DayID] = p
	}
	return byDay, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanProgress(row scannable) (*models.Progress, error) {
	var p models.Progress
	var assessment sql.NullString
	var firstCompleted sql.NullTime
	var notes sql.NullString

	err := row.Scan(&p.ID, &p.UserID, &p.DayID, &p.Completed, &assessment,
		&p.CorrectAnswers, &p.TotalQuestions, &firstCompleted, &notes, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.SelfAssessment = assessment.String
	p.Notes = notes.String
	if firstCompleted.Valid {
		t := firstCompleted.Time
		p.FirstCompletedAt = &t
	}
	return &p, nil
}
