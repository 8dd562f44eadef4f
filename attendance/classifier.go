// Package attendance derives the present/recovered/absent classification for
// every study day and exam week that is already due. It is a pure projection
// over the raw progress and exam records.
package attendance

import (
	"sort"
	"time"

	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
)

// Classify produces one record per study day whose date is <= today and one
// per exam week whose deadline is <= today. Days and weeks still in the
// future never appear in the output.
func Classify(cfg schedule.Config, calendar []models.StudyDay, progress map[int]models.Progress, exams []models.ExamSession, today time.Time) []models.AttendanceRecord {
	var records []models.AttendanceRecord
	todayDate := schedule.DateOnly(today)

	for _, day := range calendar {
		if schedule.DateOnly(day.Date).After(todayDate) {
			continue
		}
		records = append(records, models.AttendanceRecord{
			Kind:    models.AttendanceKindStudyDay,
			DayID:   day.ID,
			Date:    schedule.DateOnly(day.Date),
			Subject: day.Subject,
			Status:  classifyDay(day, progress),
		})
	}

	finalizedByWeek := finalizedSessions(exams)
	for _, week := range cfg.ExamWeeks() {
		deadline := cfg.Deadline(week)
		if deadline.After(today) {
			continue
		}
		records = append(records, models.AttendanceRecord{
			Kind:   models.AttendanceKindExamWeek,
			Week:   week,
			Date:   schedule.DateOnly(deadline),
			Status: classifyExamWeek(deadline, finalizedByWeek[week]),
		})
	}

	return records
}

func classifyDay(day models.StudyDay, progress map[int]models.Progress) models.AttendanceStatus {
	p, ok := progress[day.ID]
	if !ok || !p.Completed || p.FirstCompletedAt == nil {
		return models.AttendanceAbsent
	}
	if schedule.SameDay(*p.FirstCompletedAt, day.Date) {
		return models.AttendancePresent
	}
	if schedule.DateOnly(*p.FirstCompletedAt).After(schedule.DateOnly(day.Date)) {
		return models.AttendanceRecovered
	}
	// Completed ahead of schedule still counts as showing up.
	return models.AttendancePresent
}

func classifyExamWeek(deadline time.Time, session *models.ExamSession) models.AttendanceStatus {
	if session == nil || session.FinalizedAt == nil {
		return models.AttendanceAbsent
	}
	if session.FinalizedAt.After(deadline) {
		return models.AttendanceRecovered
	}
	return models.AttendancePresent
}

func finalizedSessions(exams []models.ExamSession) map[int]*models.ExamSession {
	byWeek := make(map[int]*models.ExamSession, len(exams))
	for i := range exams {
		e := &exams[i]
		if e.Status != models.ExamFinalized || e.FinalizedAt == nil {
			continue
		}
		// Keep the earliest finalized session per week.
		if prev, ok := byWeek[e.Week]; !ok || e.FinalizedAt.Before(*prev.FinalizedAt) {
			byWeek[e.Week] = e
		}
	}
	return byWeek
}

// Rate returns the attendance percentage over the given records: present
// weighs 1.0, recovered 0.5, absent 0.
func Rate(records []models.AttendanceRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var points float64
	for _, r := range records {
		points += r.Status.Weight()
	}
	return points / float64(len(records)) * 100
}

// SortByDate orders records by date; ties put exam weeks before study days.
func SortByDate(records []models.AttendanceRecord, ascending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date.Equal(records[j].Date) {
			return records[i].Kind < records[j].Kind
		}
		if ascending {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].Date.After(records[j].Date)
	})
}
