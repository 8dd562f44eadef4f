package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/richardgms/guia-enem-2026-sub000/db"
	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

type CalendarHandlers struct {
	db *db.DB
}

func NewCalendarHandlers(database *db.DB) *CalendarHandlers {
	return &CalendarHandlers{db: database}
}

func (ch *CalendarHandlers) ListCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days, err := ch.db.ListStudyDays()
	if err != nil {
		http.Error(w, "Failed to load calendar", http.StatusInternalServerError)
		return
	}
	if days == nil {
		days = []models.StudyDay{}
	}
	writeJSON(w, http.StatusOK, days)
}

func (ch *CalendarHandlers) ImportContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.LogImport("Invalid import payload: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if len(req.Days) == 0 && len(req.Questions) == 0 {
		http.Error(w, "Nothing to import", http.StatusBadRequest)
		return
	}

	result, err := ch.db.ImportContent(req)
	if err != nil {
		http.Error(w, "Import failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
