package models

import "time"

// ExamStatus enumerates exam session states.
type ExamStatus string

const (
	ExamInProgress ExamStatus = "in_progress"
	ExamFinalized  ExamStatus = "finalized"
)

// ExamSession is a student's attempt at a weekly exam. At most one in-progress
// session exists per user; once finalized, every field is frozen.
type ExamSession struct {
	ID                   string       `json:"id"`
	UserID               int          `json:"user_id"`
	Week                 int          `json:"week"`
	Year                 int          `json:"year"`
	Status               ExamStatus   `json:"status"`
	StartedAt            time.Time    `json:"started_at"`
	DeadlineAt           time.Time    `json:"deadline_at"`
	FinalizedAt          *time.Time   `json:"finalized_at,omitempty"`
	LastSeenAt           *time.Time   `json:"last_seen_at,omitempty"`
	CurrentQuestionIndex int          `json:"current_question_index"`
	TotalQuestions       int          `json:"total_questions"`
	CorrectCount         int          `json:"correct_count"`
	Score                int          `json:"score"` // 0-1000
	Answers              []ExamAnswer `json:"answers,omitempty"`
}

// ExamAnswer is one submitted answer. Answers are append-only and strictly
// forward-ordered; a question can never be revisited.
type ExamAnswer struct {
	QuestionID   int       `json:"question_id"`
	Position     int       `json:"position"`
	ChosenOption string    `json:"chosen_option"`
	Correct      bool      `json:"correct"`
	SecondsSpent int       `json:"seconds_spent"`
	AnsweredAt   time.Time `json:"answered_at"`
}

// ExamQuestion is one question of a week's fixed question set. The answer key
// is never serialized to clients.
type ExamQuestion struct {
	ID        int      `json:"id"`
	Week      int      `json:"week"`
	Position  int      `json:"position"`
	Statement string   `json:"statement"`
	Options   []string `json:"options"`
	Key       string   `json:"-"`
	Topic     string   `json:"topic,omitempty"`
}

// AnswerRequest for submitting one exam answer
type AnswerRequest struct {
	SessionID    string `json:"session_id"`
	QuestionID   int    `json:"question_id"`
	ChosenOption string `json:"chosen_option"`
	SecondsSpent int    `json:"seconds_spent"`
}

// Eligibility describes whether the student may start this week's exam.
type Eligibility struct {
	Week            int    `json:"week"`
	StudiedDays     int    `json:"studied_days"`
	RequiredDays    int    `json:"required_days"`
	Eligible        bool   `json:"eligible"`
	OverdueWeek     int    `json:"overdue_week,omitempty"`
	ActiveSessionID string `json:"active_session_id,omitempty"`
}
