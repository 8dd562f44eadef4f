package handlers

import (
	"net/http"
	"time"

	"github.com/richardgms/guia-enem-2026-sub000/accrual"
	"github.com/richardgms/guia-enem-2026-sub000/attendance"
	"github.com/richardgms/guia-enem-2026-sub000/auth"
	"github.com/richardgms/guia-enem-2026-sub000/db"
	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

type StatsHandlers struct {
	db           *db.DB
	sessionStore *auth.SessionStore
	cfg          schedule.Config
}

func NewStatsHandlers(database *db.DB, sessionStore *auth.SessionStore, cfg schedule.Config) *StatsHandlers {
	return &StatsHandlers{
		db:           database,
		sessionStore: sessionStore,
		cfg:          cfg,
	}
}

// GetStats serves the cached projection when present; ?refresh=true (or a
// cold cache) forces a synchronous rebuild from the raw records.
func (sh *StatsHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	refresh := r.URL.Query().Get("refresh") == "true"
	if !refresh {
		cached, err := sh.db.GetCachedStats(session.UserID)
		if err != nil {
			http.Error(w, "Failed to load stats", http.StatusInternalServerError)
			return
		}
		if cached != nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	stats, err := sh.db.RecomputeStats(session.UserID, sh.cfg, time.Now())
	if err != nil {
		utils.LogError("Failed to recompute stats for user %d: %v", session.UserID, err)
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetAttendance classifies every due study day and exam week for the user.
// ?order=asc flips the default newest-first ordering.
func (sh *StatsHandlers) GetAttendance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	calendar, err := sh.db.ListStudyDays()
	if err != nil {
		http.Error(w, "Failed to load calendar", http.StatusInternalServerError)
		return
	}
	progress, err := sh.db.ProgressMap(session.UserID)
	if err != nil {
		http.Error(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}
	exams, err := sh.db.ListFinalizedSessions(session.UserID)
	if err != nil {
		http.Error(w, "Failed to load exam sessions", http.StatusInternalServerError)
		return
	}

	records := attendance.Classify(sh.cfg, calendar, progress, exams, time.Now())
	attendance.SortByDate(records, r.URL.Query().Get("order") == "asc")
	if records == nil {
		records = []models.AttendanceRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"rate":    attendance.Rate(records),
	})
}

// GetLedger projects the full coin movement history, newest first.
func (sh *StatsHandlers) GetLedger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	progress, err := sh.db.ListProgress(session.UserID)
	if err != nil {
		http.Error(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}
	days, err := sh.db.StudyDayMap()
	if err != nil {
		http.Error(w, "Failed to load calendar", http.StatusInternalServerError)
		return
	}
	exams, err := sh.db.ListFinalizedSessions(session.UserID)
	if err != nil {
		http.Error(w, "Failed to load exam sessions", http.StatusInternalServerError)
		return
	}
	redemptions, err := sh.db.ListRedemptions(session.UserID)
	if err != nil {
		http.Error(w, "Failed to load redemptions", http.StatusInternalServerError)
		return
	}

	entries := accrual.ProjectLedger(sh.cfg, progress, days, exams, redemptions)
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
