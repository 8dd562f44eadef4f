package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/richardgms/guia-enem-2026-sub000/auth"
	"github.com/richardgms/guia-enem-2026-sub000/models"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

// Context keys for storing user session
type contextKey string

const sessionContextKey contextKey = "session"

// extractSessionFromRequest gets session ID from Authorization header or cookie
func extractSessionFromRequest(r *http.Request) string {
	_auth := r.Header.Get("Authorization")

	if strings.HasPrefix(_auth, "Bearer ") {
		return strings.TrimPrefix(_auth, "Bearer ")
	}

	cookie, err := r.Cookie("session_id")
	if err != nil {
		return ""
	}
	return cookie.Value
}

// authMiddleware validates the session and adds it to the request context
func authMiddleware(next http.HandlerFunc, sessionStore *auth.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := extractSessionFromRequest(r)
		if sessionID == "" {
			http.Error(w, "Missing session token", http.StatusUnauthorized)
			return
		}

		session, exists := sessionStore.GetSession(sessionID)
		if !exists {
			http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// requireRole wraps a handler so only the given roles pass
func requireRole(next http.HandlerFunc, sessionStore *auth.SessionStore, roles ...string) http.HandlerFunc {
	return authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		session := getSessionFromContext(r.Context())
		if session == nil {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		for _, role := range roles {
			if session.Role == role {
				next.ServeHTTP(w, r)
				return
			}
		}
		http.Error(w, "Insufficient permissions", http.StatusForbidden)
	}, sessionStore)
}

// getSessionFromContext extracts session from request context
func getSessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(sessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// getSessionFromRequest resolves the session directly from the request,
// for handlers mounted without the middleware
func getSessionFromRequest(r *http.Request, sessionStore *auth.SessionStore) *models.Session {
	if session := getSessionFromContext(r.Context()); session != nil {
		return session
	}
	sessionID := extractSessionFromRequest(r)
	if sessionID == "" {
		return nil
	}
	session, exists := sessionStore.GetSession(sessionID)
	if !exists {
		return nil
	}
	return session
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		utils.LogHTTP("%s %s %d %v", r.Method, r.URL.Path, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
