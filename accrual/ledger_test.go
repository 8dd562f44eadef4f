package accrual

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richardgms/guia-enem-2026-sub000/models"
)

func TestProjectLedgerReconcilesWithRecompute(t *testing.T) {
	cfg := testConfig()
	days := calendarFixture()
	progress := []models.Progress{
		{ID: 1, DayID: 1, Completed: true, FirstCompletedAt: ts(2025, time.December, 8, 20)},
		{ID: 2, DayID: 2, Completed: true, FirstCompletedAt: ts(2025, time.December, 12, 9)},
	}
	exams := []models.ExamSession{
		{ID: "x1", Week: 1, Status: models.ExamFinalized, Score: 640,
			FinalizedAt: ts(2025, time.December, 16, 15)},
	}

	entries := ProjectLedger(cfg, progress, days, exams, nil)
	stats := Recompute(cfg, progress, days, exams, time.Date(2025, time.December, 17, 0, 0, 0, 0, time.UTC), 0)

	earned := 0
	for _, e := range entries {
		require.Equal(t, models.LedgerEarn, e.Kind)
		earned += e.Amount
	}
	assert.Equal(t, stats.TotalCoins, earned, "ledger earn total must reconcile with the coin balance")
}

func TestProjectLedgerEntries(t *testing.T) {
	cfg := testConfig()
	days := calendarFixture()
	progress := []models.Progress{
		{ID: 7, DayID: 1, Completed: true, FirstCompletedAt: ts(2025, time.December, 8, 20)},
	}
	redemptions := []models.Redemption{
		{ID: 3, RewardName: "Dia de folga", Cost: 200,
			RedeemedAt: time.Date(2025, time.December, 18, 12, 0, 0, 0, time.UTC)},
	}

	entries := ProjectLedger(cfg, progress, days, nil, redemptions)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "redemption-3", entries[0].ID)
	assert.Equal(t, models.LedgerSpend, entries[0].Kind)
	assert.Equal(t, 200, entries[0].Amount)

	assert.Equal(t, "progress-7", entries[1].ID)
	assert.Equal(t, models.LedgerEarn, entries[1].Kind)
	assert.Equal(t, CoinsOnTimeDay, entries[1].Amount)
}

func TestProjectLedgerSkipsZeroBonus(t *testing.T) {
	cfg := testConfig()
	exams := []models.ExamSession{
		{ID: "x1", Week: 1, Status: models.ExamFinalized, Score: 0,
			FinalizedAt: ts(2025, time.December, 14, 18)},
	}

	entries := ProjectLedger(cfg, nil, calendarFixture(), exams, nil)
	assert.Empty(t, entries, "a zero score on time produces no ledger entries")
}
