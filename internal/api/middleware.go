package api

import (
	"context"
	"net/http"
	"strings"

	"financetrack/internal/apperror"
)

type contextKey string

const sessionKey contextKey = "session"

// requireAuth validates the bearer token and stores the session on the
// request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, s.logger, &apperror.AuthError{Reason: "missing Authorization header"})
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, s.logger, &apperror.AuthError{Reason: "Authorization header must be a bearer token"})
			return
		}

		session, ok := s.sessions.Validate(token)
		if !ok {
			writeError(w, s.logger, &apperror.AuthError{Reason: "invalid or expired session"})
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next(w, r.WithContext(ctx))
	}
}

// sessionFrom returns the authenticated session stored by requireAuth.
func sessionFrom(r *http.Request) *Session {
	session, _ := r.Context().Value(sessionKey).(*Session)
	return session
}
