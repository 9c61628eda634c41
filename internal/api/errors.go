package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mvickery/hearth-core/internal/alert"
	"github.com/mvickery/hearth-core/internal/calendar"
	"github.com/mvickery/hearth-core/internal/device"
	"github.com/mvickery/hearth-core/internal/owner"
	"github.com/mvickery/hearth-core/internal/scene"
	"github.com/mvickery/hearth-core/internal/timer"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeConflict   = "conflict"
	ErrCodeInternal   = "internal_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// notFoundErrs are domain errors that mean the addressed thing does not
// exist for this owner.
var notFoundErrs = []error{
	owner.ErrNotFound,
	device.ErrNotFound,
	alert.ErrNotFound,
	calendar.ErrNotFound,
	scene.ErrNotFound,
	scene.ErrActionNotFound,
}

// badRequestErrs are domain validation errors.
var badRequestErrs = []error{
	owner.ErrInvalidName,
	device.ErrInvalidAction,
	device.ErrInvalidType,
	device.ErrInvalidRoom,
	device.ErrInvalidPower,
	timer.ErrInvalidTime,
	alert.ErrInvalidName,
	alert.ErrInvalidComparator,
	calendar.ErrInvalidTitle,
	calendar.ErrInvalidTimeRange,
	scene.ErrInvalidName,
	scene.ErrNotBuiltIn,
}

// writeDomainError maps a service-layer error onto the HTTP envelope.
// Unrecognised errors become opaque 500s so internals never leak.
func writeDomainError(w http.ResponseWriter, err error) {
	for _, target := range notFoundErrs {
		if errors.Is(err, target) {
			writeNotFound(w, err.Error())
			return
		}
	}
	for _, target := range badRequestErrs {
		if errors.Is(err, target) {
			writeBadRequest(w, err.Error())
			return
		}
	}
	if errors.Is(err, device.ErrExists) || errors.Is(err, scene.ErrDuplicateDevice) {
		writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())
		return
	}
	writeInternalError(w, "internal server error")
}
