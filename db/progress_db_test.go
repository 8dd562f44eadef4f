package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richardgms/guia-enem-2026-sub000/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUserAndDay(t *testing.T, db *DB) int {
	t.Helper()
	user, err := db.CreateUser(models.UserRequest{Username: "rich", Email: "rich@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO study_days (id, date, subject, difficulty) VALUES (1, ?, 'Matemática', 'medium')`,
		time.Date(2025, time.December, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return user.ID
}

func TestSaveProgressSetsFirstCompletedAtOnce(t *testing.T) {
	db := testDB(t)
	userID := seedUserAndDay(t, db)

	first := time.Date(2025, time.December, 11, 10, 0, 0, 0, time.UTC)
	p, err := db.SaveProgress(userID, models.ProgressRequest{DayID: 1, Completed: true, SelfAssessment: models.AssessmentGood}, first)
	require.NoError(t, err)
	require.NotNil(t, p.FirstCompletedAt)
	assert.Equal(t, first, p.FirstCompletedAt.UTC())

	// Re-saving the completed day later must preserve the original timestamp.
	later := first.Add(48 * time.Hour)
	p, err = db.SaveProgress(userID, models.ProgressRequest{DayID: 1, Completed: true, Notes: "revised"}, later)
	require.NoError(t, err)
	require.NotNil(t, p.FirstCompletedAt)
	assert.Equal(t, first, p.FirstCompletedAt.UTC(), "first_completed_at must never be overwritten")
	assert.Equal(t, "revised", p.Notes)
}

func TestSaveProgressIncompleteLeavesFirstCompletedAtNull(t *testing.T) {
	db := testDB(t)
	userID := seedUserAndDay(t, db)

	p, err := db.SaveProgress(userID, models.ProgressRequest{DayID: 1, Completed: false, Notes: "started reading"},
		time.Date(2025, time.December, 9, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, p.FirstCompletedAt)

	// Completing afterwards stamps it.
	done := time.Date(2025, time.December, 9, 21, 0, 0, 0, time.UTC)
	p, err = db.SaveProgress(userID, models.ProgressRequest{DayID: 1, Completed: true}, done)
	require.NoError(t, err)
	require.NotNil(t, p.FirstCompletedAt)
	assert.Equal(t, done, p.FirstCompletedAt.UTC())
}

func TestSaveProgressUpsertsOneRowPerDay(t *testing.T) {
	db := testDB(t)
	userID := seedUserAndDay(t, db)

	now := time.Date(2025, time.December, 9, 20, 0, 0, 0, time.UTC)
	_, err := db.SaveProgress(userID, models.ProgressRequest{DayID: 1, Completed: true}, now)
	require.NoError(t, err)
	_, err = db.SaveProgress(userID, models.ProgressRequest{DayID: 1, Completed: true}, now.Add(time.Minute))
	require.NoError(t, err)

	records, err := db.ListProgress(userID)
	require.NoError(t, err)
	assert.Len(t, records, 1, "double-submit must not create a second row")
}
