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

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Protected routes, all scoped to the caller's farm claim
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// Zone endpoints
			r.Route("/zones", func(r chi.Router) {
				r.Get("/", s.handleListZones)
				r.Post("/", s.requireManage(s.handleCreateZone))

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetZone)
					r.Put("/", s.requireManage(s.handleUpdateZone))
					r.Delete("/", s.requireManage(s.handleDeleteZone))
					r.Post("/start", s.requireCommand(s.handleStartZone))
					r.Post("/stop", s.requireCommand(s.handleStopZone))
					r.Post("/pause", s.requireCommand(s.handlePauseZone))
				})
			})

			// System endpoints
			r.Route("/system", func(r chi.Router) {
				r.Get("/status", s.handleSystemStatus)
				r.Post("/enable", s.requireManage(s.handleEnableSystem))
				r.Post("/disable", s.requireManage(s.handleDisableSystem))
				r.Post("/auto-mode/enable", s.requireManage(s.handleEnableAutoMode))
				r.Post("/auto-mode/disable", s.requireManage(s.handleDisableAutoMode))
				r.Post("/emergency/activate", s.requireCommand(s.handleActivateEmergency))
				r.Post("/emergency/deactivate", s.requireCommand(s.handleDeactivateEmergency))
				r.Post("/stop-all", s.requireCommand(s.handleStopAll))
			})

			// Analytics endpoints
			r.Route("/analytics", func(r chi.Router) {
				r.Get("/water-usage", s.handleWaterUsage)
				r.Get("/weather", s.handleWeather)
			})

			// Command audit trail
			r.Get("/audit", s.handleListAudit)

			// WebSocket state stream
			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
