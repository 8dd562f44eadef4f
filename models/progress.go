package models

import "time"

// Self-assessment values a student can record for a completed day.
const (
	AssessmentGood             = "good"
	AssessmentNeedsReview      = "needs_review"
	AssessmentDidNotUnderstand = "did_not_understand"
)

// Progress is a per-user, per-day completion record. FirstCompletedAt is set
// on the first completed=true save and never overwritten afterwards.
type Progress struct {
	ID               int        `json:"id"`
	UserID           int        `json:"user_id"`
	DayID            int        `json:"day_id"`
	Completed        bool       `json:"completed"`
	SelfAssessment   string     `json:"self_assessment,omitempty"`
	CorrectAnswers   int        `json:"correct_answers"`
	TotalQuestions   int        `json:"total_questions"`
	FirstCompletedAt *time.Time `json:"first_completed_at,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ProgressRequest for saving a day's completion state
type ProgressRequest struct {
	DayID          int    `json:"day_id"`
	Completed      bool   `json:"completed"`
	SelfAssessment string `json:"self_assessment,omitempty"`
	CorrectAnswers int    `json:"correct_answers"`
	TotalQuestions int    `json:"total_questions"`
	Notes          string `json:"notes,omitempty"`
}

func ValidAssessment(a string) bool {
	switch a {
	case "", AssessmentGood, AssessmentNeedsReview, AssessmentDidNotUnderstand:
		return true
	}
	return false
}
