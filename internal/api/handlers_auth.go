package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"financetrack/internal/apperror"
	"financetrack/internal/logging"
	"financetrack/internal/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, badRequestf("invalid JSON body: %v", err))
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, s.logger, badRequestf("a valid email is required"))
		return
	}
	if len(req.Password) < 8 {
		writeError(w, s.logger, badRequestf("password must be at least 8 characters"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	user, err := s.store.CreateUser(r.Context(), models.User{
		Email:          req.Email,
		HashedPassword: string(hash),
		FullName:       strings.TrimSpace(req.FullName),
		IsActive:       true,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	s.logger.WithField("email", user.Email).Info("User registered")
	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email, FullName: user.FullName})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, badRequestf("invalid JSON body: %v", err))
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.store.UserByEmail(r.Context(), req.Email)
	if err != nil {
		// Same response as a bad password so emails cannot be probed
		writeError(w, s.logger, &apperror.AuthError{Reason: "invalid credentials"})
		return
	}
	if !user.IsActive {
		writeError(w, s.logger, &apperror.AuthError{Reason: "account is disabled"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		writeError(w, s.logger, &apperror.AuthError{Reason: "invalid credentials"})
		return
	}

	session := s.sessions.Create(user.ID, user.Email)
	s.logger.WithFields(
		logging.F("email", user.Email),
		logging.F("user_id", user.ID),
	).Info("User logged in")

	writeJSON(w, http.StatusOK, loginResponse{
		Token: session.Token,
		User:  userResponse{ID: user.ID, Email: user.Email, FullName: user.FullName},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	s.sessions.Revoke(session.Token)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
