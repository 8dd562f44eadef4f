package models

import "time"

// StudyDay is one entry of the static study calendar. Reference data, loaded
// once per process and shared by all users.
type StudyDay struct {
	ID               int       `json:"id"`
	Date             time.Time `json:"date"`
	Subject          string    `json:"subject"`
	Difficulty       string    `json:"difficulty"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	QuestionCount    int       `json:"question_count"`
}

// StudyDayImport is one calendar entry in a content import payload.
type StudyDayImport struct {
	Date             string `json:"date"` // YYYY-MM-DD
	Subject          string `json:"subject"`
	Difficulty       string `json:"difficulty"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	QuestionCount    int    `json:"question_count"`
}

// ExamQuestionImport is one weekly exam question in a content import payload.
type ExamQuestionImport struct {
	Week      int      `json:"week"`
	Position  int      `json:"position"`
	Statement string   `json:"statement"`
	Options   []string `json:"options"`
	Key       string   `json:"key"`
	Topic     string   `json:"topic,omitempty"`
}

// ImportRequest is the content catalog import payload.
type ImportRequest struct {
	Days      []StudyDayImport     `json:"days,omitempty"`
	Questions []ExamQuestionImport `json:"questions,omitempty"`
}

type ImportResult struct {
	ImportedDays      int      `json:"imported_days"`
	ImportedQuestions int      `json:"imported_questions"`
	Skipped           int      `json:"skipped"`
	Errors            []string `json:"errors,omitempty"`
	TimeTaken         string   `json:"time_taken"`
}
