package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// deviceParams extracts the {type}/{room} path parameters.
func deviceParams(r *http.Request) (deviceType, room string, ok bool) {
	deviceType = chi.URLParam(r, "type")
	room = chi.URLParam(r, "room")
	if deviceType == "" || room == "" ||
		len(deviceType) > maxQueryParamLen || len(room) > maxQueryParamLen {
		return "", "", false
	}
	return deviceType, room, true
}

// handleListDevices returns the owner's connected devices.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}

	devices, err := s.service.ListDevices(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleConnectDevice attaches a device to the owner's household.
func (s *Server) handleConnectDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}

	var req struct {
		Type  string  `json:"type"`
		Room  string  `json:"room"`
		Watts float64 `json:"watts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	d, err := s.service.ConnectDevice(r.Context(), id, req.Type, req.Room, req.Watts)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// handleDisconnectDevice detaches a device, returning its final state
// with the closed ON session folded into the consumption total.
func (s *Server) handleDisconnectDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	deviceType, room, ok := deviceParams(r)
	if !ok {
		writeBadRequest(w, "invalid device path")
		return
	}

	d, err := s.service.DisconnectDevice(r.Context(), id, deviceType, room)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleToggleDevice applies an ON or OFF action to a device.
// Re-applying the current state is reported as changed=false, not an error.
func (s *Server) handleToggleDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	deviceType, room, ok := deviceParams(r)
	if !ok {
		writeBadRequest(w, "invalid device path")
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	d, changed, err := s.service.ToggleDevice(r.Context(), id, deviceType, room, req.Action)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"device": d, "changed": changed})
}

// handleScheduleTimer sets a future ON or OFF transition on a device.
func (s *Server) handleScheduleTimer(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	deviceType, room, ok := deviceParams(r)
	if !ok {
		writeBadRequest(w, "invalid device path")
		return
	}

	var req struct {
		Action string    `json:"action"`
		At     time.Time `json:"at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.service.ScheduleTimer(r.Context(), id, deviceType, room, req.Action, req.At); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"status": "scheduled"})
}

// handleCancelTimer clears the device's pending slot for an action.
func (s *Server) handleCancelTimer(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	deviceType, room, ok := deviceParams(r)
	if !ok {
		writeBadRequest(w, "invalid device path")
		return
	}
	action := chi.URLParam(r, "action")

	if err := s.service.CancelTimer(r.Context(), id, deviceType, room, action); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "cancelled"})
}

// handleListTimers returns the owner's pending timer slots across all
// devices.
func (s *Server) handleListTimers(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}

	views, err := s.service.PendingTimers(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"timers": views, "count": len(views)})
}
