package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mhollis/accountd/internal/auth"
)

// authorisationRequest is the request body for POST /auth/authorise/{id}
// and POST /auth/deauthorise/{id}.
type authorisationRequest struct {
	Authorisation string `json:"authorisation"`
}

// handleSelf returns the caller's own account record. Self-access needs
// no permission beyond a valid session.
func (s *Server) handleSelf(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFromContext(r.Context()))
}

// handleGetAccount returns a single account by ID. Requires the
// auth-info authorisation (admins hold every authorisation).
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	if !caller.Permissions().Contains(auth.PermAuthInfo) {
		writeAccessDenied(w)
		return
	}

	id := chi.URLParam(r, "id")
	user, err := s.userRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeBadRequest(w, "account does not exist")
			return
		}
		s.logger.Error("get account failed", "error", err)
		writeInternalError(w, "failed to get account")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleListAccounts returns all account records. Requires the auth-info
// authorisation.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	if !caller.Permissions().Contains(auth.PermAuthInfo) {
		writeAccessDenied(w)
		return
	}

	users, err := s.userRepo.List(r.Context())
	if err != nil {
		s.logger.Error("list accounts failed", "error", err)
		writeInternalError(w, "failed to list accounts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"count": len(users),
	})
}

// handleAuthorise grants a named authorisation to an account. Admin only.
func (s *Server) handleAuthorise(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	if !caller.Permissions().IsAdmin() {
		writeAccessDenied(w)
		return
	}

	name, ok := decodeAuthorisation(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.userRepo.GrantAuthorisation(r.Context(), id, name); err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			writeBadRequest(w, "account does not exist")
		case errors.Is(err, auth.ErrAlreadyAuthorised):
			writeBadRequest(w, "user already authorised")
		default:
			s.logger.Error("grant authorisation failed", "error", err)
			writeInternalError(w, "failed to grant authorisation")
		}
		return
	}

	s.logger.Info("authorisation granted",
		"user_id", id,
		"authorisation", name,
		"granted_by", caller.ID,
	)
	writeJSON(w, http.StatusOK, map[string]string{"authorisation": name})
}

// handleDeauthorise revokes a named authorisation from an account. Admin only.
func (s *Server) handleDeauthorise(w http.ResponseWriter, r *http.Request) {
	caller := userFromContext(r.Context())
	if !caller.Permissions().IsAdmin() {
		writeAccessDenied(w)
		return
	}

	name, ok := decodeAuthorisation(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	// Distinguish a missing account from a missing grant: revoking from
	// an account that does not exist is its own failure.
	if _, err := s.userRepo.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeBadRequest(w, "account does not exist")
			return
		}
		s.logger.Error("get account for revoke failed", "error", err)
		writeInternalError(w, "failed to revoke authorisation")
		return
	}

	if err := s.userRepo.RevokeAuthorisation(r.Context(), id, name); err != nil {
		if errors.Is(err, auth.ErrNotAuthorised) {
			writeBadRequest(w, "user not authorised")
			return
		}
		s.logger.Error("revoke authorisation failed", "error", err)
		writeInternalError(w, "failed to revoke authorisation")
		return
	}

	s.logger.Info("authorisation revoked",
		"user_id", id,
		"authorisation", name,
		"revoked_by", caller.ID,
	)
	writeJSON(w, http.StatusOK, map[string]string{"authorisation": name})
}

// decodeAuthorisation decodes and validates the authorisation request
// body, writing the error response itself on failure.
func decodeAuthorisation(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req authorisationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return "", false
	}
	if req.Authorisation == "" {
		writeBadRequest(w, "authorisation is required")
		return "", false
	}
	return req.Authorisation, true
}
