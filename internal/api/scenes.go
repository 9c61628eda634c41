package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mvickery/hearth-core/internal/device"
	"github.com/mvickery/hearth-core/internal/scene"
)

// sceneName extracts and bounds-checks the {name} path parameter.
func sceneName(r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if name == "" || len(name) > maxQueryParamLen {
		return "", false
	}
	return name, true
}

// handleListScenes enumerates the scenes the owner can execute,
// overrides marked.
func (s *Server) handleListScenes(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}

	scenes, err := s.service.ListScenes(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenes": scenes, "count": len(scenes)})
}

// handleGetScene returns the owner's effective version of a scene.
func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	name, ok := sceneName(r)
	if !ok {
		writeBadRequest(w, "invalid scene name")
		return
	}

	sc, err := s.service.GetScene(r.Context(), id, name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// handleExecuteScene applies a scene to the owner's devices and returns
// the per-action report. Partial failure is a 200 with the accounting,
// not an error status.
func (s *Server) handleExecuteScene(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	name, ok := sceneName(r)
	if !ok {
		writeBadRequest(w, "invalid scene name")
		return
	}

	report, err := s.service.ExecuteScene(r.Context(), id, name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleAddSceneAction appends an action to the owner's version of a
// scene, creating a custom scene when the name is new.
func (s *Server) handleAddSceneAction(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	name, ok := sceneName(r)
	if !ok {
		writeBadRequest(w, "invalid scene name")
		return
	}

	var req struct {
		DeviceType  string `json:"device_type"`
		Room        string `json:"room"`
		Action      string `json:"action"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	act, err := device.ParseAction(req.Action)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	err = s.service.AddSceneAction(r.Context(), id, name, scene.Action{
		Device:      device.NewKey(req.DeviceType, req.Room),
		Action:      act,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"status": "added"})
}

// handleChangeSceneAction replaces the target state of one action in
// the owner's version of a scene.
func (s *Server) handleChangeSceneAction(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	name, ok := sceneName(r)
	if !ok {
		writeBadRequest(w, "invalid scene name")
		return
	}
	deviceType, room, ok := deviceParams(r)
	if !ok {
		writeBadRequest(w, "invalid device path")
		return
	}

	var req struct {
		Action      string `json:"action"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.service.ChangeSceneAction(r.Context(), id, name, deviceType, room, req.Action, req.Description); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "changed"})
}

// handleRemoveSceneAction drops one action from the owner's version of
// a scene.
func (s *Server) handleRemoveSceneAction(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	name, ok := sceneName(r)
	if !ok {
		writeBadRequest(w, "invalid scene name")
		return
	}
	deviceType, room, ok := deviceParams(r)
	if !ok {
		writeBadRequest(w, "invalid device path")
		return
	}

	if err := s.service.RemoveSceneAction(r.Context(), id, name, deviceType, room); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "removed"})
}

// handleResetScene discards the owner's override so the built-in
// definition applies again.
func (s *Server) handleResetScene(w http.ResponseWriter, r *http.Request) {
	id, ok := ownerID(r)
	if !ok {
		writeBadRequest(w, "invalid owner ID")
		return
	}
	name, ok := sceneName(r)
	if !ok {
		writeBadRequest(w, "invalid scene name")
		return
	}

	if err := s.service.ResetScene(r.Context(), id, name); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}
