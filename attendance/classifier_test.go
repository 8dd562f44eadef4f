package attendance

import (
	"testing"
	"time"

	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ts(y int, m time.Month, d, hour int) *time.Time {
	t := time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
	return &t
}

func testConfig() schedule.Config {
	cfg := schedule.DefaultConfig()
	cfg.TotalWeeks = 2
	return cfg
}

func TestClassifyStudyDays(t *testing.T) {
	cfg := testConfig()
	calendar := []models.StudyDay{
		{ID: 1, Date: date(2025, time.December, 8), Subject: "Matemática"},
		{ID: 2, Date: date(2025, time.December, 9), Subject: "Linguagens"},
		{ID: 3, Date: date(2025, time.December, 10), Subject: "Ciências Humanas"},
		{ID: 4, Date: date(2025, time.December, 12), Subject: "Ciências da Natureza"},
	}
	progress := map[int]models.Progress{
		1: {DayID: 1, Completed: true, FirstCompletedAt: ts(2025, time.December, 8, 21)},
		2: {DayID: 2, Completed: true, FirstCompletedAt: ts(2025, time.December, 11, 9)},
		3: {DayID: 3, Completed: false},
	}

	records := Classify(cfg, calendar, progress, nil, date(2025, time.December, 11))

	want := map[int]models.AttendanceStatus{
		1: models.AttendancePresent,
		2: models.AttendanceRecovered, // scheduled 12-09, caught up 12-11
		3: models.AttendanceAbsent,
	}
	byDay := map[int]models.AttendanceStatus{}
	for _, r := range records {
		if r.Kind == models.AttendanceKindStudyDay {
			byDay[r.DayID] = r.Status
		}
	}
	for dayID, status := range want {
		if byDay[dayID] != status {
			t.Errorf("day %d: status = %s, want %s", dayID, byDay[dayID], status)
		}
	}
	if _, ok := byDay[4]; ok {
		t.Error("day scheduled 12-12 must not be classified on 12-11")
	}
}

func TestClassifyNeverIncludesFutureDays(t *testing.T) {
	cfg := testConfig()
	calendar := []models.StudyDay{
		{ID: 1, Date: date(2025, time.December, 20)},
		{ID: 2, Date: date(2025, time.December, 25)},
	}

	records := Classify(cfg, calendar, nil, nil, date(2025, time.December, 10))
	if len(records) != 0 {
		t.Errorf("got %d records for an all-future calendar, want 0", len(records))
	}
}

func TestClassifyExamWeeks(t *testing.T) {
	cfg := testConfig()
	exams := []models.ExamSession{
		{Week: 1, Status: models.ExamFinalized, FinalizedAt: ts(2025, time.December, 14, 20)},
		{Week: 2, Status: models.ExamFinalized, FinalizedAt: ts(2025, time.December, 23, 10)}, // deadline 12-21
	}

	records := Classify(cfg, nil, nil, exams, date(2025, time.December, 24))

	byWeek := map[int]models.AttendanceStatus{}
	for _, r := range records {
		if r.Kind == models.AttendanceKindExamWeek {
			byWeek[r.Week] = r.Status
		}
	}
	if byWeek[1] != models.AttendancePresent {
		t.Errorf("week 1 finalized on deadline day: status = %s, want present", byWeek[1])
	}
	if byWeek[2] != models.AttendanceRecovered {
		t.Errorf("week 2 finalized after deadline: status = %s, want recovered", byWeek[2])
	}
}

func TestClassifyExamWeekAbsentAndInProgressIgnored(t *testing.T) {
	cfg := testConfig()
	exams := []models.ExamSession{
		{Week: 1, Status: models.ExamInProgress}, // never counts
	}

	records := Classify(cfg, nil, nil, exams, date(2025, time.December, 16))

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (week 1 only)", len(records))
	}
	if records[0].Status != models.AttendanceAbsent {
		t.Errorf("unfinalized exam week: status = %s, want absent", records[0].Status)
	}
}

func TestRate(t *testing.T) {
	records := []models.AttendanceRecord{
		{Status: models.AttendancePresent},
		{Status: models.AttendancePresent},
		{Status: models.AttendanceRecovered},
		{Status: models.AttendanceAbsent},
	}

	// (1 + 1 + 0.5 + 0) / 4 = 62.5%
	if got := Rate(records); got != 62.5 {
		t.Errorf("Rate = %v, want 62.5", got)
	}
	if got := Rate(nil); got != 0 {
		t.Errorf("Rate(nil) = %v, want 0", got)
	}
}

func TestSortByDate(t *testing.T) {
	records := []models.AttendanceRecord{
		{Kind: models.AttendanceKindStudyDay, DayID: 1, Date: date(2025, time.December, 10)},
		{Kind: models.AttendanceKindStudyDay, DayID: 2, Date: date(2025, time.December, 8)},
		{Kind: models.AttendanceKindExamWeek, Week: 1, Date: date(2025, time.December, 14)},
	}

	SortByDate(records, true)
	if records[0].DayID != 2 || records[2].Week != 1 {
		t.Errorf("ascending sort wrong: %+v", records)
	}

	SortByDate(records, false)
	if records[0].Week != 1 || records[2].DayID != 2 {
		t.Errorf("descending sort wrong: %+v", records)
	}
}
