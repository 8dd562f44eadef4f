package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/richardgms/guia-enem-2026-sub000/auth"
	"github.com/richardgms/guia-enem-2026-sub000/db"
	"github.com/richardgms/guia-enem-2026-sub000/jobs"
	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

type ProgressHandlers struct {
	db           *db.DB
	sessionStore *auth.SessionStore
	cfg          schedule.Config
	jobManager   *jobs.JobManager
}

func NewProgressHandlers(database *db.DB, sessionStore *auth.SessionStore, cfg schedule.Config, jobManager *jobs.JobManager) *ProgressHandlers {
	return &ProgressHandlers{
		db:           database,
		sessionStore: sessionStore,
		cfg:          cfg,
		jobManager:   jobManager,
	}
}

func (ph *ProgressHandlers) HandleProgress(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ph.listProgress(w, r)
	case http.MethodPost:
		ph.saveProgress(w, r)
	default:
		utils.LogHTTP("Method %s not allowed for /progress", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (ph *ProgressHandlers) listProgress(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	records, err := ph.db.ListProgress(session.UserID)
	if err != nil {
		http.Error(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.Progress{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (ph *ProgressHandlers) saveProgress(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req models.ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogHTTP("Invalid JSON in progress request: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.DayID == 0 {
		http.Error(w, "day_id is required", http.StatusBadRequest)
		return
	}
	if !models.ValidAssessment(req.SelfAssessment) {
		http.Error(w, "Invalid self_assessment", http.StatusBadRequest)
		return
	}

	day, err := ph.db.GetStudyDay(req.DayID)
	if err != nil {
		http.Error(w, "Failed to load study day", http.StatusInternalServerError)
		return
	}
	if day == nil {
		http.Error(w, "Unknown study day", http.StatusNotFound)
		return
	}

	progress, err := ph.db.SaveProgress(session.UserID, req, time.Now())
	if err != nil {
		utils.LogError("Failed to save progress: %v", err)
		http.Error(w, "Failed to save progress", http.StatusInternalServerError)
		return
	}

	// Refresh the cached stats projection off the request path.
	if err := ph.jobManager.QueueStatsRecompute(session.UserID, "progress_saved"); err != nil {
		utils.LogError("Failed to queue stats recompute: %v", err)
	}

	writeJSON(w, http.StatusCreated, progress)
}
