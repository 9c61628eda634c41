package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// maxQueryParamLen limits path and query parameter length to prevent
// abuse via oversized URL components.
const maxQueryParamLen = 100

// nowUTC is the request-time clock.
func nowUTC() time.Time { return time.Now().UTC() }

// ownerID extracts and bounds-checks the owner ID path parameter.
func ownerID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "ownerID")
	if id == "" || len(id) > maxQueryParamLen {
		return "", false
	}
	return id, true
}

// handleListOwners returns every owner record.
func (s *Server) handleListOwners(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListOwners(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list owners")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"owners": records, "count": len(records)})
}

// handleCreateOwner registers a new owner record.
func (s *Server) handleCreateOwner(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	rec, err := s.service.CreateOwner(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// handleGetOwner returns one owner's full record.
func (s *Server) handleGetOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}

	rec, err := s.service.GetOwner(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleDeleteOwner removes an owner and everything it aggregates.
func (s *Server) handleDeleteOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}

	if err := s.service.DeleteOwner(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}
