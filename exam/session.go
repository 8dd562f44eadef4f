// Package exam implements the weekly exam lifecycle as an explicit state
// machine: NOT_ELIGIBLE -> ELIGIBLE -> IN_PROGRESS -> FINALIZED. Finalize is
// the single terminal entry point, reached from the last answer, an explicit
// exit, or deadline expiry, and it is idempotent.
package exam

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

// Start builds a fresh in-progress session over the week's fixed question
// set. Eligibility and conflict checks belong to the caller; Start itself
// only constructs.
func Start(cfg schedule.Config, userID, week int, questions []models.ExamQuestion, now time.Time) (*models.ExamSession, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	session := &models.ExamSession{
		ID:             uuid.NewString(),
		UserID:         userID,
		Week:           week,
		Year:           now.Year(),
		Status:         models.ExamInProgress,
		StartedAt:      now,
		DeadlineAt:     now.Add(cfg.ExamDuration),
		TotalQuestions: len(questions),
	}
	utils.LogExam("Session %s started: user %d, week %d, %d questions, deadline %s",
		session.ID, userID, week, len(questions), session.DeadlineAt.Format(time.RFC3339))
	return session, nil
}

// SubmitAnswer appends one answer. Answers are forward-only: the question must
// be the one at the session's current index, and prior answers are never
// revisited or overwritten. Answering the last question finalizes the session.
func SubmitAnswer(session *models.ExamSession, questions []models.ExamQuestion, req models.AnswerRequest, now time.Time) error {
	if session.Status != models.ExamInProgress {
		return ErrAlreadyFinalized
	}
	if CheckDeadline(session, now) {
		return ErrAlreadyFinalized
	}
	if session.CurrentQuestionIndex >= len(questions) ||
		questions[session.CurrentQuestionIndex].ID != req.QuestionID {
		return ErrQuestionOrder
	}

	question := questions[session.CurrentQuestionIndex]
	correct := utils.NormalizeOption(req.ChosenOption) == utils.NormalizeOption(question.Key)

	session.Answers = append(session.Answers, models.ExamAnswer{
		QuestionID:   question.ID,
		Position:     session.CurrentQuestionIndex,
		ChosenOption: req.ChosenOption,
		Correct:      correct,
		SecondsSpent: req.SecondsSpent,
		AnsweredAt:   now,
	})
	session.CurrentQuestionIndex++

	utils.LogExam("Session %s: answered question %d (%d/%d, correct: %t)",
		session.ID, question.ID, session.CurrentQuestionIndex, session.TotalQuestions, correct)

	if session.CurrentQuestionIndex == session.TotalQuestions {
		Finalize(session, now)
	}
	return nil
}

// Heartbeat records liveness while the exam runs and doubles as the deadline
// enforcement point for clients that went quiet.
func Heartbeat(session *models.ExamSession, now time.Time) {
	if session.Status != models.ExamInProgress {
		return
	}
	if CheckDeadline(session, now) {
		return
	}
	session.LastSeenAt = &now
}

// CheckDeadline finalizes the session when its deadline has passed. Returns
// true when the session is finalized afterwards. The deadline is enforced on
// contact, by wall clock, never by a server-side sweep.
func CheckDeadline(session *models.ExamSession, now time.Time) bool {
	if session.Status == models.ExamFinalized {
		return true
	}
	if now.After(session.DeadlineAt) {
		utils.LogExam("Session %s expired at %s, finalizing", session.ID, session.DeadlineAt.Format(time.RFC3339))
		Finalize(session, now)
		return true
	}
	return false
}

// Finalize freezes the session and computes the score on a 0-1000 scale.
// Idempotent: a finalized session passes through untouched, so concurrent or
// retried finalize calls converge on one result.
func Finalize(session *models.ExamSession, now time.Time) {
	if session.Status == models.ExamFinalized {
		return
	}

	correct := 0
	for _, a := range session.Answers {
		if a.Correct {
			correct++
		}
	}
	session.CorrectCount = correct
	if session.TotalQuestions > 0 {
		session.Score = int(math.Round(float64(correct) / float64(session.TotalQuestions) * 1000))
	}
	session.Status = models.ExamFinalized
	session.FinalizedAt = &now

	utils.LogExam("Session %s finalized: %d/%d correct, score %d",
		session.ID, correct, session.TotalQuestions, session.Score)
}
