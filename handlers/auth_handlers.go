package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/richardgms/guia-enem-2026-sub000/auth"
	"github.com/richardgms/guia-enem-2026-sub000/db"
	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

type AuthHandlers struct {
	db           *db.DB
	sessionStore *auth.SessionStore
}

func NewAuthHandlers(database *db.DB, sessionStore *auth.SessionStore) *AuthHandlers {
	return &AuthHandlers{
		db:           database,
		sessionStore: sessionStore,
	}
}

func (ah *AuthHandlers) HandleAuth(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimPrefix(r.URL.Path, "/auth/")
	utils.LogHTTP("%s /auth/%s", r.Method, action)

	switch action {
	case "register":
		ah.register(w, r)
	case "login":
		ah.login(w, r)
	case "logout":
		ah.logout(w, r)
	case "me":
		ah.me(w, r)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (ah *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateUserRequest(req.Username, req.Email, req.Password, false); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Self-registration never grants elevated roles
	req.Role = "student"

	user, err := ah.db.CreateUser(req)
	if err != nil {
		utils.LogError("Failed to create user %s: %v", req.Username, err)
		http.Error(w, "Failed to create user", http.StatusConflict)
		return
	}

	session := ah.sessionStore.CreateSession(user)
	utils.LogInfo("User %s (%d) registered", user.Username, user.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":    user,
		"session": session,
	})
}

func (ah *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := ah.db.AuthenticateUser(req.Username, req.Password)
	if err != nil {
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}
	if user == nil {
		utils.LogHTTP("Failed login attempt for %s", req.Username)
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	session := ah.sessionStore.CreateSession(user)
	utils.LogInfo("User %s (%d) logged in", user.Username, user.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"session": session,
	})
}

func (ah *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if sessionID := extractSessionFromRequest(r); sessionID != "" {
		ah.sessionStore.DeleteSession(sessionID)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (ah *AuthHandlers) me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := getSessionFromRequest(r, ah.sessionStore)
	if session == nil {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	user, err := ah.db.GetUserByID(session.UserID)
	if err != nil || user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
