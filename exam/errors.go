package exam

import (
	"errors"
	"fmt"

	"github.com/richardgms/guia-enem-2026-sub000/models"
)

// IneligibleError reports how far the student is from unlocking the exam.
type IneligibleError struct {
	StudiedDays  int
	RequiredDays int
}

func (e *IneligibleError) Error() string {
	return fmt.Sprintf("not eligible: %d of %d required study days this week", e.StudiedDays, e.RequiredDays)
}

// Deficit is the number of study days still missing.
func (e *IneligibleError) Deficit() int {
	return e.RequiredDays - e.StudiedDays
}

// SessionConflictError is returned when a start is attempted while another
// session is active. Callers resolve it by surfacing the existing session,
// never by overwriting it.
type SessionConflictError struct {
	Active *models.ExamSession
}

func (e *SessionConflictError) Error() string {
	return fmt.Sprintf("exam session %s already in progress for week %d", e.Active.ID, e.Active.Week)
}

var (
	// ErrAlreadyFinalized marks writes against a finalized session. Callers
	// treat it as a safe no-op so client retries stay harmless.
	ErrAlreadyFinalized = errors.New("exam session already finalized")

	// ErrQuestionOrder rejects answers that skip ahead or revisit: answering
	// is strictly forward-only, one shot per question.
	ErrQuestionOrder = errors.New("answer does not match the current question")

	// ErrNoQuestions means the question bank has no set for the week.
	ErrNoQuestions = errors.New("no question set for this week")
)
