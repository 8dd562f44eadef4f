package accrual

import (
	"fmt"
	"sort"

	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
)

// ProjectLedger rebuilds the chronological coin movements from the same
// records Recompute consumes, plus the redemption history for the spend side.
// One entry per contributing record, newest first. It carries no state of its
// own, so the sum of its amounts always reconciles with the coin balance
// minus redemptions.
func ProjectLedger(cfg schedule.Config, progress []models.Progress, days map[int]models.StudyDay, exams []models.ExamSession, redemptions []models.Redemption) []models.LedgerEntry {
	var entries []models.LedgerEntry
	activity := make(map[string]bool)

	for _, p := range progress {
		if !p.Completed || p.FirstCompletedAt == nil {
			continue
		}
		day, ok := days[p.DayID]
		if !ok {
			continue
		}
		completed := schedule.DateOnly(*p.FirstCompletedAt)
		scheduled := schedule.DateOnly(day.Date)
		activity[completed.Format("2006-01-02")] = true

		entry := models.LedgerEntry{
			ID:   fmt.Sprintf("progress-%d", p.ID),
			Kind: models.LedgerEarn,
			At:   *p.FirstCompletedAt,
		}
		if completed.After(scheduled) {
			entry.Amount = CoinsRecoveredDay
			entry.Description = fmt.Sprintf("Recovered study day: %s (%s)", day.Subject, scheduled.Format("2006-01-02"))
		} else {
			entry.Amount = CoinsOnTimeDay
			entry.Description = fmt.Sprintf("On-time study day: %s (%s)", day.Subject, scheduled.Format("2006-01-02"))
		}
		entries = append(entries, entry)
	}

	for _, e := range exams {
		if e.Status != models.ExamFinalized || e.FinalizedAt == nil {
			continue
		}
		if bonus := ExamBonus(e.Score); bonus > 0 {
			entries = append(entries, models.LedgerEntry{
				ID:          fmt.Sprintf("exam-%s-bonus", e.ID),
				Kind:        models.LedgerEarn,
				Description: fmt.Sprintf("Exam performance bonus: week %d (score %d)", e.Week, e.Score),
				Amount:      bonus,
				At:          *e.FinalizedAt,
			})
		}

		deadline := cfg.Deadline(e.Week)
		if !e.FinalizedAt.After(deadline) {
			continue
		}
		finalDate := schedule.DateOnly(*e.FinalizedAt)
		for d := schedule.DateOnly(deadline).AddDate(0, 0, 1); !d.After(finalDate); d = d.AddDate(0, 0, 1) {
			key := d.Format("2006-01-02")
			if activity[key] {
				continue
			}
			activity[key] = true
			entries = append(entries, models.LedgerEntry{
				ID:          fmt.Sprintf("exam-%s-catchup-%s", e.ID, key),
				Kind:        models.LedgerEarn,
				Description: fmt.Sprintf("Catch-up day excused by week %d exam (%s)", e.Week, key),
				Amount:      CoinsRecoveredDay,
				At:          d,
			})
		}
	}

	for _, r := range redemptions {
		entries = append(entries, models.LedgerEntry{
			ID:          fmt.Sprintf("redemption-%d", r.ID),
			Kind:        models.LedgerSpend,
			Description: fmt.Sprintf("Reward redeemed: %s", r.RewardName),
			Amount:      r.Cost,
			At:          r.RedeemedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].At.After(entries[j].At) })
	return entries
}
