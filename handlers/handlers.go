package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/richardgms/guia-enem-2026-sub000/auth"
	"github.com/richardgms/guia-enem-2026-sub000/db"
	"github.com/richardgms/guia-enem-2026-sub000/jobs"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

// API wrapper to hold all handlers
type API struct {
	authHandlers     *AuthHandlers
	calendarHandlers *CalendarHandlers
	progressHandlers *ProgressHandlers
	statsHandlers    *StatsHandlers
	examHandlers     *ExamHandlers
	rewardsHandlers  *RewardsHandlers
}

func NewAPI(database *db.DB, sessionStore *auth.SessionStore, cfg schedule.Config, jobManager *jobs.JobManager) *API {
	return &API{
		authHandlers:     NewAuthHandlers(database, sessionStore),
		calendarHandlers: NewCalendarHandlers(database),
		progressHandlers: NewProgressHandlers(database, sessionStore, cfg, jobManager),
		statsHandlers:    NewStatsHandlers(database, sessionStore, cfg),
		examHandlers:     NewExamHandlers(database, sessionStore, cfg, jobManager),
		rewardsHandlers:  NewRewardsHandlers(database, sessionStore, cfg, jobManager),
	}
}

func NewRouter(database *db.DB, sessionStore *auth.SessionStore, cfg schedule.Config, jobManager *jobs.JobManager) http.Handler {
	api := NewAPI(database, sessionStore, cfg, jobManager)

	mux := http.NewServeMux()

	// Health check (no auth required)
	mux.HandleFunc("/health", healthCheck)

	// Auth endpoints (handle their own auth as needed)
	mux.HandleFunc("/auth/", api.authHandlers.HandleAuth)

	// Study calendar: readable by any signed-in student, imports are admin-only
	mux.HandleFunc("/calendar", authMiddleware(api.calendarHandlers.ListCalendar, sessionStore))
	mux.HandleFunc("/calendar/import", requireRole(api.calendarHandlers.ImportContent, sessionStore, "admin"))

	// Daily progress
	mux.HandleFunc("/progress", authMiddleware(api.progressHandlers.HandleProgress, sessionStore))

	// Derived aggregates
	mux.HandleFunc("/attendance", authMiddleware(api.statsHandlers.GetAttendance, sessionStore))
	mux.HandleFunc("/stats", authMiddleware(api.statsHandlers.GetStats, sessionStore))
	mux.HandleFunc("/ledger", authMiddleware(api.statsHandlers.GetLedger, sessionStore))

	// Weekly exam lifecycle
	mux.HandleFunc("/exams/eligibility", authMiddleware(api.examHandlers.GetEligibility, sessionStore))
	mux.HandleFunc("/exams/start", authMiddleware(api.examHandlers.StartExam, sessionStore))
	mux.HandleFunc("/exams/active", authMiddleware(api.examHandlers.GetActiveExam, sessionStore))
	mux.HandleFunc("/exams/answer", authMiddleware(api.examHandlers.SubmitAnswer, sessionStore))
	mux.HandleFunc("/exams/heartbeat", authMiddleware(api.examHandlers.Heartbeat, sessionStore))
	mux.HandleFunc("/exams/exit", authMiddleware(api.examHandlers.ExitExam, sessionStore))

	// Coin shop
	mux.HandleFunc("/rewards", authMiddleware(api.rewardsHandlers.ListRewards, sessionStore))
	mux.HandleFunc("/rewards/redeem", authMiddleware(api.rewardsHandlers.Redeem, sessionStore))

	return loggingMiddleware(corsMiddleware(mux))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.LogHTTP("Health check requested")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.LogError("Failed to encode response: %v", err)
	}
}
