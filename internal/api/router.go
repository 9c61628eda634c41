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
		r.Get("/health", s.handleHealth)

		// Scheduler control
		r.Post("/scheduler/tick", s.handleForceTick)

		// Owner records
		r.Route("/owners", func(r chi.Router) {
			r.Get("/", s.handleListOwners)
			r.Post("/", s.handleCreateOwner)

			r.Route("/{ownerID}", func(r chi.Router) {
				r.Get("/", s.handleGetOwner)
				r.Delete("/", s.handleDeleteOwner)

				// Devices and their timer slots
				r.Route("/devices", func(r chi.Router) {
					r.Get("/", s.handleListDevices)
					r.Post("/", s.handleConnectDevice)
					r.Delete("/{type}/{room}", s.handleDisconnectDevice)
					r.Put("/{type}/{room}/state", s.handleToggleDevice)

					r.Route("/{type}/{room}/timers", func(r chi.Router) {
						r.Post("/", s.handleScheduleTimer)
						r.Delete("/{action}", s.handleCancelTimer)
					})
				})
				r.Get("/timers", s.handleListTimers)

				// Alerts
				r.Route("/alerts", func(r chi.Router) {
					r.Get("/", s.handleListAlerts)
					r.Post("/time", s.handleCreateTimeAlert)
					r.Post("/energy", s.handleCreateEnergyAlert)
					r.Post("/{alertID}/toggle", s.handleToggleAlert)
					r.Delete("/{alertID}", s.handleDeleteAlert)
				})

				// Calendar events
				r.Route("/events", func(r chi.Router) {
					r.Get("/", s.handleUpcomingEvents)
					r.Post("/", s.handleCreateEvent)
					r.Put("/{title}", s.handleEditEvent)
					r.Delete("/{title}", s.handleDeleteEvent)
				})

				// Scenes
				r.Route("/scenes", func(r chi.Router) {
					r.Get("/", s.handleListScenes)
					r.Get("/{name}", s.handleGetScene)
					r.Post("/{name}/execute", s.handleExecuteScene)
					r.Post("/{name}/actions", s.handleAddSceneAction)
					r.Put("/{name}/actions/{type}/{room}", s.handleChangeSceneAction)
					r.Delete("/{name}/actions/{type}/{room}", s.handleRemoveSceneAction)
					r.Post("/{name}/reset", s.handleResetScene)
				})
			})
		})

		// WebSocket event stream
		r.Get("/ws", s.handleWebSocket)
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

// handleForceTick runs one scheduler evaluation pass immediately.
func (s *Server) handleForceTick(w http.ResponseWriter, _ *http.Request) {
	if s.scheduler == nil {
		writeNotFound(w, "scheduler not running")
		return
	}
	s.scheduler.ForceTick(nowUTC())
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "tick queued"})
}
