package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mhollis/accountd/internal/auth"
)

// registerRequest is the request body for POST /auth/register.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister creates a new account. New accounts are never admin and
// hold no authorisations; those are granted later by an existing admin.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if !auth.IsValidName(req.Name) {
		writeBadRequest(w, "name must be 6-20 characters")
		return
	}
	if !auth.IsValidEmail(req.Email) {
		writeBadRequest(w, "a valid email is required")
		return
	}
	if !auth.IsValidPassword(req.Password) {
		writeBadRequest(w, "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hash password failed", "error", err)
		writeInternalError(w, "failed to register account")
		return
	}

	user := &auth.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(r.Context(), user); err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			writeBadRequest(w, "email already exists")
			return
		}
		s.logger.Error("create account failed", "error", err)
		writeInternalError(w, "failed to register account")
		return
	}

	s.logger.Info("account registered", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusOK, user)
}

// handleLogin authenticates an account and returns a session token.
// The two failure messages stay distinct (unknown account vs wrong
// password) to match the established wire contract.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}

	user, err := s.userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeBadRequest(w, "account does not exist")
			return
		}
		s.logger.Error("login lookup failed", "error", err)
		writeInternalError(w, "failed to log in")
		return
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		writeBadRequest(w, "invalid password")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("issue token failed", "error", err)
		writeInternalError(w, "failed to log in")
		return
	}

	s.logger.Info("account logged in", "user_id", user.ID)

	// The response body is the bare token, matching the established
	// wire contract.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(token)) //nolint:errcheck // best-effort write to response
}
