package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tillerlabs/farmcore/internal/zone"
)

// Envelope is the response wrapper on every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Total   *int   `json:"total,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Error codes returned in the envelope's error field.
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeInternal     = "INTERNAL_ERROR"
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

// writeData writes a success envelope wrapping the payload.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// writeList writes a success envelope with a total count alongside the data.
func writeList(w http.ResponseWriter, data any, total int) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Total: &total})
}

// writeError writes a failure envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Envelope{Success: false, Message: message, Error: code})
}

// writeBadRequest writes a 400 validation failure.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeValidation, message)
}

// writeNotFound writes a 404 failure.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeConflict writes a 409 failure.
func writeConflict(w http.ResponseWriter, message string) {
	writeError(w, http.StatusConflict, ErrCodeConflict, message)
}

// writeUnauthorized writes a 401 failure.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeForbidden writes a 403 failure.
func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, ErrCodeForbidden, message)
}

// writeInternalError writes a 500 failure.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps a domain error onto the HTTP surface:
// validation failures become 400, missing zones 404, duplicate creates 409,
// anything else a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, zone.ErrInvalidZone),
		errors.Is(err, zone.ErrInvalidStatus),
		errors.Is(err, zone.ErrInvalidValveStatus),
		errors.Is(err, zone.ErrInvalidSchedule):
		writeBadRequest(w, err.Error())
	case errors.Is(err, zone.ErrZoneNotFound):
		writeNotFound(w, "zone not found")
	case errors.Is(err, zone.ErrZoneExists):
		writeConflict(w, "a zone with this name already exists for this farm")
	default:
		writeInternalError(w, "internal server error")
	}
}
