package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/richardgms/guia-enem-2026-sub000/auth"
	"github.com/richardgms/guia-enem-2026-sub000/db"
	"github.com/richardgms/guia-enem-2026-sub000/exam"
	"github.com/richardgms/guia-enem-2026-sub000/jobs"
	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

type ExamHandlers struct {
	db           *db.DB
	sessionStore *auth.SessionStore
	cfg          schedule.Config
	jobManager   *jobs.JobManager
}

func NewExamHandlers(database *db.DB, sessionStore *auth.SessionStore, cfg schedule.Config, jobManager *jobs.JobManager) *ExamHandlers {
	return &ExamHandlers{
		db:           database,
		sessionStore: sessionStore,
		cfg:          cfg,
		jobManager:   jobManager,
	}
}

func (eh *ExamHandlers) GetEligibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	progress, err := eh.db.ListProgress(session.UserID)
	if err != nil {
		http.Error(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}
	exams, err := eh.db.ListFinalizedSessions(session.UserID)
	if err != nil {
		http.Error(w, "Failed to load exam sessions", http.StatusInternalServerError)
		return
	}
	active, err := eh.db.GetActiveSession(session.UserID)
	if err != nil {
		http.Error(w, "Failed to load active session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, exam.Evaluate(eh.cfg, progress, exams, active, time.Now()))
}

// StartExam opens a session for the earliest overdue week, or for the current
// week once enough study days are in. An already-active session is a conflict
// and comes back with the session so the client can resume it.
func (eh *ExamHandlers) StartExam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	now := time.Now()

	active, err := eh.db.GetActiveSession(session.UserID)
	if err != nil {
		http.Error(w, "Failed to load active session", http.StatusInternalServerError)
		return
	}
	if active != nil {
		conflict := &exam.SessionConflictError{Active: active}
		utils.LogExam("Start rejected for user %d: %v", session.UserID, conflict)
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   conflict.Error(),
			"session": active,
		})
		return
	}

	progress, err := eh.db.ListProgress(session.UserID)
	if err != nil {
		http.Error(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}
	exams, err := eh.db.ListFinalizedSessions(session.UserID)
	if err != nil {
		http.Error(w, "Failed to load exam sessions", http.StatusInternalServerError)
		return
	}

	elig := exam.Evaluate(eh.cfg, progress, exams, nil, now)
	if elig.OverdueWeek == 0 && !elig.Eligible {
		ineligible := &exam.IneligibleError{StudiedDays: elig.StudiedDays, RequiredDays: elig.RequiredDays}
		utils.LogExam("Start rejected for user %d: %v", session.UserID, ineligible)
		writeJSON(w, http.StatusForbidden, map[string]interface{}{
			"error":         ineligible.Error(),
			"studied_days":  ineligible.StudiedDays,
			"required_days": ineligible.RequiredDays,
			"deficit":       ineligible.Deficit(),
		})
		return
	}

	week := exam.StartWeek(eh.cfg, exams, now)
	questions, err := eh.db.GetQuestionsForWeek(week)
	if err != nil {
		http.Error(w, "Failed to load questions", http.StatusInternalServerError)
		return
	}

	examSession, err := exam.Start(eh.cfg, session.UserID, week, questions, now)
	if err != nil {
		if errors.Is(err, exam.ErrNoQuestions) {
			http.Error(w, "No question set for this week", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to start exam", http.StatusInternalServerError)
		return
	}
	if err := eh.db.InsertSession(examSession); err != nil {
		// Most likely the partial unique index: another request won the start.
		http.Error(w, "Failed to start exam", http.StatusConflict)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session":   examSession,
		"questions": questions,
	})
}

// GetActiveExam resumes the in-progress session. The deadline is checked on
// the way out, so an expired session finalizes here instead of being resumed.
func (eh *ExamHandlers) GetActiveExam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	active, err := eh.db.GetActiveSession(session.UserID)
	if err != nil {
		http.Error(w, "Failed to load active session", http.StatusInternalServerError)
		return
	}
	if active == nil {
		http.Error(w, "No active exam session", http.StatusNotFound)
		return
	}

	if exam.CheckDeadline(active, time.Now()) {
		eh.persistFinalized(active, session.UserID, "exam_expired")
		writeJSON(w, http.StatusOK, map[string]interface{}{"session": active})
		return
	}

	questions, err := eh.db.GetQuestionsForWeek(active.Week)
	if err != nil {
		http.Error(w, "Failed to load questions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":   active,
		"questions": questions,
	})
}

func (eh *ExamHandlers) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req models.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	examSession, ok := eh.loadOwnedSession(w, req.SessionID, session.UserID)
	if !ok {
		return
	}

	questions, err := eh.db.GetQuestionsForWeek(examSession.Week)
	if err != nil {
		http.Error(w, "Failed to load questions", http.StatusInternalServerError)
		return
	}

	err = exam.SubmitAnswer(examSession, questions, req, time.Now())
	switch {
	case errors.Is(err, exam.ErrAlreadyFinalized):
		// Deadline expiry or a retry against a finalized session: both converge
		// on the stored result.
		stored := eh.persistFinalized(examSession, session.UserID, "exam_finalized")
		writeJSON(w, http.StatusOK, map[string]interface{}{"session": stored})
		return
	case errors.Is(err, exam.ErrQuestionOrder):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, "Failed to submit answer", http.StatusInternalServerError)
		return
	}

	answer := examSession.Answers[len(examSession.Answers)-1]
	if err := eh.db.AppendAnswer(examSession, answer); err != nil {
		http.Error(w, "Failed to save answer", http.StatusConflict)
		return
	}

	if examSession.Status == models.ExamFinalized {
		stored := eh.persistFinalized(examSession, session.UserID, "exam_finalized")
		writeJSON(w, http.StatusOK, map[string]interface{}{"session": stored})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": examSession})
}

func (eh *ExamHandlers) Heartbeat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	examSession, ok := eh.loadOwnedSession(w, req.SessionID, session.UserID)
	if !ok {
		return
	}

	now := time.Now()
	exam.Heartbeat(examSession, now)
	if examSession.Status == models.ExamFinalized {
		stored := eh.persistFinalized(examSession, session.UserID, "exam_expired")
		writeJSON(w, http.StatusOK, map[string]interface{}{"session": stored})
		return
	}

	if err := eh.db.TouchSession(examSession.ID, now); err != nil {
		http.Error(w, "Failed to record heartbeat", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ExitExam finalizes early with whatever answers are in. Unanswered questions
// score zero; there is no abandon-without-consequence path.
func (eh *ExamHandlers) ExitExam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := getSessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	examSession, ok := eh.loadOwnedSession(w, req.SessionID, session.UserID)
	if !ok {
		return
	}

	exam.Finalize(examSession, time.Now())
	stored := eh.persistFinalized(examSession, session.UserID, "exam_exited")
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": stored})
}

func (eh *ExamHandlers) loadOwnedSession(w http.ResponseWriter, sessionID string, userID int) (*models.ExamSession, bool) {
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return nil, false
	}
	examSession, err := eh.db.GetSessionByID(sessionID)
	if err != nil {
		http.Error(w, "Failed to load exam session", http.StatusInternalServerError)
		return nil, false
	}
	if examSession == nil {
		http.Error(w, "Unknown exam session", http.StatusNotFound)
		return nil, false
	}
	if examSession.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}
	return examSession, true
}

// persistFinalized writes the terminal state and schedules the stats rebuild
// that folds in the bonus and any catch-up days.
func (eh *ExamHandlers) persistFinalized(session *models.ExamSession, userID int, reason string) *models.ExamSession {
	stored, err := eh.db.FinalizeSession(session)
	if err != nil {
		utils.LogError("Failed to persist finalized session %s: %v", session.ID, err)
		return session
	}
	if err := eh.jobManager.QueueStatsRecompute(userID, reason); err != nil {
		utils.LogError("Failed to queue stats recompute: %v", err)
	}
	return stored
}
