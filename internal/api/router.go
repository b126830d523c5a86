package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Health check (no auth required)
	r.Get("/health", s.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/info", s.handleSelf)
			r.Get("/info/{id}", s.handleGetAccount)
			r.Get("/all", s.handleListAccounts)
			r.Post("/authorise/{id}", s.handleAuthorise)
			r.Post("/deauthorise/{id}", s.handleDeauthorise)
		})
	})

	return r
}

// handleHealth returns the server health status, including database
// reachability when a database handle was provided.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK

	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err != nil {
			s.logger.Error("database health check failed", "error", err)
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":  status,
		"version": s.version,
	})
}
