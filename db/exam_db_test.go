package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richardgms/guia-enem-2026-sub000/models"
)

func seedSession(t *testing.T, db *DB, userID int, id string) *models.ExamSession {
	t.Helper()
	started := time.Date(2025, time.December, 12, 19, 0, 0, 0, time.UTC)
	session := &models.ExamSession{
		ID:             id,
		UserID:         userID,
		Week:           1,
		Year:           2025,
		Status:         models.ExamInProgress,
		StartedAt:      started,
		DeadlineAt:     started.Add(50 * time.Minute),
		TotalQuestions: 3,
	}
	require.NoError(t, db.InsertSession(session))
	return session
}

func TestOneActiveSessionPerUser(t *testing.T) {
	db := testDB(t)
	userID := seedUserAndDay(t, db)

	seedSession(t, db, userID, "session-a")

	// The partial unique index rejects a second in-progress session.
	started := time.Date(2025, time.December, 12, 19, 5, 0, 0, time.UTC)
	err := db.InsertSession(&models.ExamSession{
		ID: "session-b", UserID: userID, Week: 1, Year: 2025,
		Status: models.ExamInProgress, StartedAt: started,
		DeadlineAt: started.Add(50 * time.Minute), TotalQuestions: 3,
	})
	assert.Error(t, err)

	active, err := db.GetActiveSession(userID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "session-a", active.ID)
}

func TestFinalizeSessionGuardedAgainstRaces(t *testing.T) {
	db := testDB(t)
	userID := seedUserAndDay(t, db)
	session := seedSession(t, db, userID, "session-a")

	first := time.Date(2025, time.December, 12, 19, 30, 0, 0, time.UTC)
	session.Status = models.ExamFinalized
	session.FinalizedAt = &first
	session.CorrectCount = 2
	session.Score = 667

	stored, err := db.FinalizeSession(session)
	require.NoError(t, err)
	require.NotNil(t, stored.FinalizedAt)
	assert.Equal(t, 667, stored.Score)

	// A losing concurrent finalize must not overwrite the stored result.
	second := first.Add(time.Minute)
	loser := *session
	loser.FinalizedAt = &second
	loser.CorrectCount = 0
	loser.Score = 0

	stored, err = db.FinalizeSession(&loser)
	require.NoError(t, err)
	assert.Equal(t, 667, stored.Score, "first finalize wins")
	assert.Equal(t, first, stored.FinalizedAt.UTC())

	// A finalized session no longer blocks starting a new one.
	next := seedSession(t, db, userID, "session-b")
	active, err := db.GetActiveSession(userID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, next.ID, active.ID)
}

func TestAppendAnswerRejectsDuplicatePosition(t *testing.T) {
	db := testDB(t)
	userID := seedUserAndDay(t, db)
	session := seedSession(t, db, userID, "session-a")

	answeredAt := time.Date(2025, time.December, 12, 19, 10, 0, 0, time.UTC)
	answer := models.ExamAnswer{QuestionID: 1, Position: 0, ChosenOption: "B", Correct: true, SecondsSpent: 40, AnsweredAt: answeredAt}
	session.CurrentQuestionIndex = 1
	require.NoError(t, db.AppendAnswer(session, answer))

	// Double-submit of the same question hits the (session_id, position)
	// constraint instead of writing a second row.
	err := db.AppendAnswer(session, answer)
	assert.Error(t, err)

	loaded, err := db.GetSessionByID(session.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Answers, 1)
	assert.Equal(t, 1, loaded.CurrentQuestionIndex)
}
