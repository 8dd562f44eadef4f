package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

// ListStudyDays returns the full calendar ordered by date.
func (db *DB) ListStudyDays() ([]models.StudyDay, error) {
	rows, err := db.Query(`
        SELECT id, date, subject, difficulty, estimated_minutes, question_count
        FROM study_days ORDER BY date
    `)
	if err != nil {
		utils.LogError("ListStudyDays failed: %v", err)
		return nil, err
	}
	defer rows.Close()

	var days []models.StudyDay
	for rows.Next() {
		var d models.StudyDay
		if err := rows.Scan(&d.ID, &d.Date, &d.Subject, &d.Difficulty, &d.EstimatedMinutes, &d.QuestionCount); err != nil {
			utils.LogError("Failed to scan study day: %v", err)
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// GetStudyDay returns one calendar entry, or nil when it does not exist.
func (db *DB) GetStudyDay(id int) (*models.StudyDay, error) {
	var d models.StudyDay
	err := db.QueryRow(`
        SELECT id, date, subject, difficulty, estimated_minutes, question_count
        FROM study_days WHERE id = ?
    `, id).Scan(&d.ID, &d.Date, &d.Subject, &d.Difficulty, &d.EstimatedMinutes, &d.QuestionCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		utils.LogError("GetStudyDay(%d) failed: %v", id, err)
		return nil, err
	}
	return &d, nil
}

// StudyDayMap returns the calendar keyed by day ID, the shape the accrual
// engine consumes.
func (db *DB) StudyDayMap() (map[int]models.StudyDay, error) {
	days, err := db.ListStudyDays()
	if err != nil {
		return nil, err
	}
	byID := make(map[int]models.StudyDay, len(days))
	for _, d := range days {
		byID[d.ID] = d
	}
	return byID, nil
}

// ImportContent loads study days and weekly exam questions from a content
// release. Existing entries (same date, or same week/position) are skipped so
// re-importing the same release is harmless.
func (db *DB) ImportContent(req models.ImportRequest) (*models.ImportResult, error) {
	start := time.Now()
	result := &models.ImportResult{}
	utils.LogImport("Importing content: %d days, %d questions", len(req.Days), len(req.Questions))

	for i, day := range req.Days {
		date, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("day %d: invalid date %q", i, day.Date))
			result.Skipped++
			continue
		}
		res, err := db.Exec(`
            INSERT INTO study_days (date, subject, difficulty, estimated_minutes, question_count)
            VALUES (?, ?, ?, ?, ?)
            ON CONFLICT (date) DO NOTHING
        `, date, day.Subject, day.Difficulty, day.EstimatedMinutes, day.QuestionCount)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("day %d (%s): %v", i, day.Date, err))
			result.Skipped++
			continue
		}
		if n, _ := res.RowsAffected(); n == 0 {
			result.Skipped++
			continue
		}
		result.ImportedDays++
	}

	for i, q := range req.Questions {
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("question %d: %v", i, err))
			result.Skipped++
			continue
		}
		res, err := db.Exec(`
            INSERT INTO exam_questions (week, position, statement, options, answer_key, topic)
            VALUES (?, ?, ?, ?, ?, ?)
            ON CONFLICT (week, position) DO NOTHING
        `, q.Week, q.Position, q.Statement, string(optionsJSON), q.Key, q.Topic)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("question %d (week %d): %v", i, q.Week, err))
			result.Skipped++
			continue
		}
		if n, _ := res.RowsAffected(); n == 0 {
			result.Skipped++
			continue
		}
		result.ImportedQuestions++
	}

	result.TimeTaken = time.Since(start).String()
	utils.LogImport("Import finished: %d days, %d questions, %d skipped, %d errors (%s)",
		result.ImportedDays, result.ImportedQuestions, result.Skipped, len(result.Errors), result.TimeTaken)
	return result, nil
}
