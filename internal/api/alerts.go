package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mvickery/hearth-core/internal/household"
)

// handleListAlerts returns the owner's alerts, active and paused alike.
func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}

	alerts, err := s.service.ListAlerts(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts, "count": len(alerts)})
}

// handleCreateTimeAlert registers a time-based alert.
func (s *Server) handleCreateTimeAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}

	var req struct {
		Name       string    `json:"name"`
		DeviceType string    `json:"device_type"`
		Room       string    `json:"room"`
		TriggerAt  time.Time `json:"trigger_at"`
		Message    string    `json:"message"`
		Recurring  bool      `json:"recurring"`
		AutoDelete *bool     `json:"auto_delete"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	a, err := s.service.CreateTimeAlert(r.Context(), id, household.TimeAlertParams{
		Name:       req.Name,
		DeviceType: req.DeviceType,
		Room:       req.Room,
		TriggerAt:  req.TriggerAt,
		Message:    req.Message,
		Recurring:  req.Recurring,
		AutoDelete: req.AutoDelete,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// handleCreateEnergyAlert registers an energy-threshold alert.
func (s *Server) handleCreateEnergyAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}

	var req struct {
		Name         string  `json:"name"`
		DeviceType   string  `json:"device_type"`
		Room         string  `json:"room"`
		ThresholdKWh float64 `json:"threshold_kwh"`
		Comparator   string  `json:"comparator"`
		Message      string  `json:"message"`
		AutoDelete   *bool   `json:"auto_delete"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	a, err := s.service.CreateEnergyAlert(r.Context(), id, household.EnergyAlertParams{
		Name:         req.Name,
		DeviceType:   req.DeviceType,
		Room:         req.Room,
		ThresholdKWh: req.ThresholdKWh,
		Comparator:   req.Comparator,
		Message:      req.Message,
		AutoDelete:   req.AutoDelete,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// handleToggleAlert flips an alert between active and paused.
func (s *Server) handleToggleAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	alertID := chi.URLParam(r, "alertID")
	if alertID == "" || len(alertID) > maxQueryParamLen {
		writeBadRequest(w, "invalid alert ID")
		return
	}

	if err := s.service.ToggleAlert(r.Context(), id, alertID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "toggled"})
}

// handleDeleteAlert removes an alert.
func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	alertID := chi.URLParam(r, "alertID")
	if alertID == "" || len(alertID) > maxQueryParamLen {
		writeBadRequest(w, "invalid alert ID")
		return
	}

	if err := s.service.DeleteAlert(r.Context(), id, alertID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}
