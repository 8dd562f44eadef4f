package models

import "time"

// AttendanceStatus classifies one calendar day or exam week.
type AttendanceStatus string

const (
	AttendancePresent   AttendanceStatus = "present"
	AttendanceRecovered AttendanceStatus = "recovered"
	AttendanceAbsent    AttendanceStatus = "absent"
)

// Weight is the attendance-rate contribution of the status. Used only for the
// attendance percentage, never for coin accrual.
func (s AttendanceStatus) Weight() float64 {
	switch s {
	case AttendancePresent:
		return 1.0
	case AttendanceRecovered:
		return 0.5
	}
	return 0
}

// Kinds of attendance records.
const (
	AttendanceKindStudyDay = "study_day"
	AttendanceKindExamWeek = "exam_week"
)

// AttendanceRecord is the derived classification of one study day or exam week.
type AttendanceRecord struct {
	Kind    string           `json:"kind"`
	DayID   int              `json:"day_id,omitempty"`
	Week    int              `json:"week,omitempty"`
	Date    time.Time        `json:"date"` // scheduled date, or exam deadline date
	Subject string           `json:"subject,omitempty"`
	Status  AttendanceStatus `json:"status"`
}

// Stats is the derived per-user aggregate, recomputed from raw records and
// cached wholesale in the statistics table.
type Stats struct {
	UserID        int        `json:"user_id"`
	DaysCompleted int        `json:"days_completed"`
	CurrentStreak int        `json:"current_streak"`
	BestStreak    int        `json:"best_streak"`
	TotalCoins    int        `json:"total_coins"`
	LastStudyDay  *time.Time `json:"last_study_day,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Ledger entry kinds.
const (
	LedgerEarn  = "earn"
	LedgerSpend = "spend"
)

// LedgerEntry is one derived coin movement. Purely a projection, never stored.
type LedgerEntry struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Amount      int       `json:"amount"`
	At          time.Time `json:"at"`
}

// Reward is one item of the coin shop catalog.
type Reward struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Cost        int    `json:"cost"`
	Available   bool   `json:"available"`
}

// Redemption records coins spent on a reward.
type Redemption struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	RewardID   int       `json:"reward_id"`
	RewardName string    `json:"reward_name"`
	Cost       int       `json:"cost"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

// RedeemRequest for spending coins on a reward
type RedeemRequest struct {
	RewardID int `json:"reward_id"`
}
