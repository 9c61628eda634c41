package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// defaultUpcomingLimit bounds the upcoming-events listing when the
// client does not ask for a specific count.
const defaultUpcomingLimit = 20

// eventTitle extracts and bounds-checks the {title} path parameter.
func eventTitle(r *http.Request) (string, bool) {
	title := chi.URLParam(r, "title")
	if title == "" || len(title) > maxQueryParamLen {
		return "", false
	}
	return title, true
}

// handleUpcomingEvents returns the owner's future events, soonest first.
//
// Query parameters:
//   - limit: maximum number of events to return
func (s *Server) handleUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}

	limit := defaultUpcomingLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	events, err := s.service.UpcomingEvents(r.Context(), id, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events, "count": len(events)})
}

// handleCreateEvent adds a calendar event. Automation actions are
// derived from the event type; unknown types get none.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}

	var req struct {
		Title   string    `json:"title"`
		Type    string    `json:"type"`
		StartAt time.Time `json:"start_at"`
		EndAt   time.Time `json:"end_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	e, err := s.service.CreateEvent(r.Context(), id, req.Title, req.Type, req.StartAt, req.EndAt)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// handleEditEvent replaces the titled event wholesale. Automation
// actions are regenerated for the new type and times.
func (s *Server) handleEditEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	title, ok := eventTitle(r)
	if !ok {
		writeBadRequest(w, "invalid event title")
		return
	}

	var req struct {
		Type    string    `json:"type"`
		StartAt time.Time `json:"start_at"`
		EndAt   time.Time `json:"end_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	e, err := s.service.EditEvent(r.Context(), id, title, req.Type, req.StartAt, req.EndAt)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// handleDeleteEvent removes the titled event and reports which
// automation actions were cancelled with it.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	title, ok := eventTitle(r)
	if !ok {
		writeBadRequest(w, "invalid event title")
		return
	}

	cancelled, err := s.service.DeleteEvent(r.Context(), id, title)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "deleted",
		"cancelled_actions": cancelled,
	})
}
