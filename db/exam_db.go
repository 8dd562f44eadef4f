package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

// GetQuestionsForWeek returns the week's fixed question set in position order.
func (db *DB) GetQuestionsForWeek(week int) ([]models.ExamQuestion, error) {
	rows, err := db.Query(`
        SELECT id, week, position, statement, options, answer_key, topic
        FROM exam_questions WHERE week = ? ORDER BY position
    `, week)
	if err != nil {
		utils.LogError("GetQuestionsForWeek(%d) failed: %v", week, err)
		return nil, err
	}
	defer rows.Close()

	var questions []models.ExamQuestion
	for rows.Next() {
		var q models.ExamQuestion
		var optionsJSON string
		var topic sql.NullString
		if err := rows.Scan(&q.ID, &q.Week, &q.Position, &q.Statement, &optionsJSON, &q.Key, &topic); err != nil {
			utils.LogError("Failed to scan exam question: %v", err)
			return nil, err
		}
		if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
			utils.LogError("Corrupt options JSON on question %d: %v", q.ID, err)
			return nil, err
		}
		q.Topic = topic.String
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// InsertSession persists a freshly started session. The partial unique index
// on in-progress sessions makes a concurrent double-start fail here instead
// of silently producing two sessions.
func (db *DB) InsertSession(session *models.ExamSession) error {
	_, err := db.Exec(`
        INSERT INTO exam_sessions (id, user_id, week, year, status, started_at, deadline_at, current_question_index, total_questions)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, session.ID, session.UserID, session.Week, session.Year, session.Status,
		session.StartedAt, session.DeadlineAt, session.CurrentQuestionIndex, session.TotalQuestions)
	if err != nil {
		utils.LogError("InsertSession(%s) failed: %v", session.ID, err)
	}
	return err
}

// GetActiveSession returns the user's in-progress session with its answers,
// or nil when there is none. No active session is a normal state, not an
// error.
func (db *DB) GetActiveSession(userID int) (*models.ExamSession, error) {
	row := db.QueryRow(`
        SELECT id, user_id, week, year, status, started_at, deadline_at, finalized_at, last_seen_at,
               current_question_index, total_questions, correct_count, score
        FROM exam_sessions WHERE user_id = ? AND status = 'in_progress'
    `, userID)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		utils.LogError("GetActiveSession(%d) failed: %v", userID, err)
		return nil, err
	}
	if err := db.loadAnswers(session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSessionByID returns one session with answers, or nil when unknown.
func (db *DB) GetSessionByID(id string) (*models.ExamSession, error) {
	row := db.QueryRow(`
        SELECT id, user_id, week, year, status, started_at, deadline_at, finalized_at, last_seen_at,
               current_question_index, total_questions, correct_count, score
        FROM exam_sessions WHERE id = ?
    `, id)

	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		utils.LogError("GetSessionByID(%s) failed: %v", id, err)
		return nil, err
	}
	if err := db.loadAnswers(session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListFinalizedSessions returns the user's finalized sessions, the input the
// accrual engine and attendance classifier consume.
func (db *DB) ListFinalizedSessions(userID int) ([]models.ExamSession, error) {
	rows, err := db.Query(`
        SELECT id, user_id, week, year, status, started_at, deadline_at, finalized_at, last_seen_at,
               current_question_index, total_questions, correct_count, score
        FROM exam_sessions WHERE user_id = ? AND status = 'finalized' ORDER BY week, finalized_at
    `, userID)
	if err != nil {
		utils.LogError("ListFinalizedSessions(%d) failed: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ExamSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			utils.LogError("Failed to scan exam session: %v", err)
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

// AppendAnswer persists one submitted answer and advances the session index.
// The UNIQUE (session_id, position) constraint turns a double-submit of the
// same question into a constraint error instead of a duplicate row.
func (db *DB) AppendAnswer(session *models.ExamSession, answer models.ExamAnswer) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
        INSERT INTO exam_answers (session_id, question_id, position, chosen_option, correct, seconds_spent, answered_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, session.ID, answer.QuestionID, answer.Position, answer.ChosenOption, answer.Correct, answer.SecondsSpent, answer.AnsweredAt); err != nil {
		utils.LogError("AppendAnswer(%s, q%d) failed: %v", session.ID, answer.QuestionID, err)
		return err
	}

	if _, err := tx.Exec(`
        UPDATE exam_sessions SET current_question_index = ? WHERE id = ? AND status = 'in_progress'
    `, session.CurrentQuestionIndex, session.ID); err != nil {
		return err
	}

	return tx.Commit()
}

// FinalizeSession writes the terminal state, guarded so concurrent finalize
// calls converge: only the first write flips the row, later calls see zero
// rows affected and reload the stored result.
func (db *DB) FinalizeSession(session *models.ExamSession) (*models.ExamSession, error) {
	res, err := db.Exec(`
        UPDATE exam_sessions
        SET status = 'finalized', finalized_at = ?, correct_count = ?, score = ?
        WHERE id = ? AND status = 'in_progress'
    `, session.FinalizedAt, session.CorrectCount, session.Score, session.ID)
	if err != nil {
		utils.LogError("FinalizeSession(%s) failed: %v", session.ID, err)
		return nil, err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		// Lost the race or retried: the stored finalized row wins.
		utils.LogExam("FinalizeSession(%s): already finalized, returning stored session", session.ID)
		return db.GetSessionByID(session.ID)
	}
	return db.GetSessionByID(session.ID)
}

// TouchSession records exam liveness (anti-fraud side log).
func (db *DB) TouchSession(sessionID string, seenAt time.Time) error {
	_, err := db.Exec(`
        UPDATE exam_sessions SET last_seen_at = ? WHERE id = ? AND status = 'in_progress'
    `, seenAt, sessionID)
	if err != nil {
		utils.LogError("TouchSession(%s) failed: %v", sessionID, err)
	}
	return err
}

func (db *DB) loadAnswers(session *models.ExamSession) error {
	rows, err := db.Query(`
        SELECT question_id, position, chosen_option, correct, seconds_spent, answered_at
        FROM exam_answers WHERE session_id = ? ORDER BY position
    `, session.ID)
	if err != nil {
		utils.LogError("loadAnswers(%s) failed: %v", session.ID, err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a models.ExamAnswer
		if err := rows.Scan(&a.QuestionID, &a.Position, &a.ChosenOption, &a.Correct, &a.SecondsSpent, &a.AnsweredAt); err != nil {
			return err
		}
		session.Answers = append(session.Answers, a)
	}
	return rows.Err()
}

func scanSession(row scannable) (*models.ExamSession, error) {
	var s models.ExamSession
	var finalizedAt, lastSeenAt sql.NullTime

	err := row.Scan(&s.ID, &s.UserID, &s.Week, &s.Year, &s.Status, &s.StartedAt, &s.DeadlineAt,
		&finalizedAt, &lastSeenAt, &s.CurrentQuestionIndex, &s.TotalQuestions, &s.CorrectCount, &s.Score)
	if err != nil {
		return nil, err
	}

	if finalizedAt.Valid {
		t := finalizedAt.Time
		s.FinalizedAt = &t
	}
	if lastSeenAt.Valid {
		t := lastSeenAt.Time
		s.LastSeenAt = &t
	}
	return &s, nil
}
