package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tillerlabs/farmcore/internal/zone"
)

// handleListZones returns the farm's zones, optionally filtered by status.
//
// GET /zones
// GET /zones?status=active
// Response: {"success": true, "data": [...], "total": N}
func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	farmID := farmFrom(ctx)

	if status := r.URL.Query().Get("status"); status != "" {
		if err := zone.ValidateStatus(zone.Status(status)); err != nil {
			writeBadRequest(w, "invalid zone status")
			return
		}
		zones, err := s.zones.ListZonesByStatus(ctx, farmID, zone.Status(status))
		if err != nil {
			s.logger.Error("failed to list zones by status", "error", err, "status", status)
			writeInternalError(w, "failed to list zones")
			return
		}
		writeList(w, zones, len(zones))
		return
	}

	zones, err := s.zones.ListZones(ctx, farmID)
	if err != nil {
		s.logger.Error("failed to list zones", "error", err)
		writeInternalError(w, "failed to list zones")
		return
	}
	writeList(w, zones, len(zones))
}

// handleGetZone returns a single zone by ID.
//
// GET /zones/{id}
func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	z, err := s.zones.GetZone(r.Context(), farmFrom(r.Context()), id)
	if err != nil {
		if errors.Is(err, zone.ErrZoneNotFound) {
			writeNotFound(w, "zone not found")
			return
		}
		s.logger.Error("failed to get zone", "error", err, "id", id)
		writeInternalError(w, "failed to get zone")
		return
	}

	writeData(w, http.StatusOK, z)
}

// handleCreateZone creates a new irrigation zone.
//
// POST /zones
// Body: IrrigationZone JSON; farm scope comes from the token, never the body.
// Response: 201 Created with the created zone
func (s *Server) handleCreateZone(w http.ResponseWriter, r *http.Request) {
	var z zone.IrrigationZone
	if err := json.NewDecoder(r.Body).Decode(&z); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	z.FarmID = farmFrom(r.Context())

	if err := s.zones.CreateZone(r.Context(), &z); err != nil {
		if errors.Is(err, zone.ErrZoneExists) {
			writeConflict(w, "a zone with this name already exists for this farm")
			return
		}
		if errors.Is(err, zone.ErrInvalidZone) || errors.Is(err, zone.ErrInvalidSchedule) {
			writeBadRequest(w, err.Error())
			return
		}
		s.logger.Error("failed to create zone", "error", err)
		writeInternalError(w, "failed to create zone")
		return
	}

	writeData(w, http.StatusCreated, z)
}

// handleUpdateZone partially updates a zone.
//
// PUT /zones/{id}
// Body: partial zone fields; validation rejects before any mutation.
// Response: updated zone JSON
func (s *Server) handleUpdateZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch zone.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	// Updates go through the controller so they serialize with
	// start/stop/pause and bulk sweeps on the same zone.
	z, err := s.controller.UpdateZone(r.Context(), farmFrom(r.Context()), id, patch.Apply)
	if err != nil {
		writeDomainError(w, err)
		if !isClientError(err) {
			s.logger.Error("failed to update zone", "error", err, "id", id)
		}
		return
	}

	writeData(w, http.StatusOK, z)
}

// handleDeleteZone removes a zone and its schedules.
//
// DELETE /zones/{id}
// Response: {"success": true}
func (s *Server) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.zones.DeleteZone(r.Context(), farmFrom(r.Context()), id); err != nil {
		if errors.Is(err, zone.ErrZoneNotFound) {
			writeNotFound(w, "zone not found")
			return
		}
		s.logger.Error("failed to delete zone", "error", err, "id", id)
		writeInternalError(w, "failed to delete zone")
		return
	}

	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "zone deleted"})
}

// startRequest is the optional body for POST /zones/{id}/start.
type startRequest struct {
	Duration int `json:"duration"`
}

// handleStartZone starts irrigation on a zone.
//
// POST /zones/{id}/start
// Body (optional): {"duration": minutes}
// Response: {"success": true, "data": {"zoneId", "duration", "startedAt"}}
func (s *Server) handleStartZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Duration < 0 {
		writeBadRequest(w, "duration must be positive")
		return
	}

	receipt, err := s.controller.Start(r.Context(), farmFrom(r.Context()), id, req.Duration)
	if err != nil {
		writeDomainError(w, err)
		if !isClientError(err) {
			s.logger.Error("failed to start zone", "error", err, "id", id)
		}
		return
	}

	writeData(w, http.StatusOK, receipt)
}

// handleStopZone stops irrigation on a zone, accruing water usage.
//
// POST /zones/{id}/stop
func (s *Server) handleStopZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	receipt, err := s.controller.Stop(r.Context(), farmFrom(r.Context()), id)
	if err != nil {
		writeDomainError(w, err)
		if !isClientError(err) {
			s.logger.Error("failed to stop zone", "error", err, "id", id)
		}
		return
	}

	writeData(w, http.StatusOK, receipt)
}

// handlePauseZone pauses irrigation on a zone.
//
// POST /zones/{id}/pause
func (s *Server) handlePauseZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	receipt, err := s.controller.Pause(r.Context(), farmFrom(r.Context()), id)
	if err != nil {
		writeDomainError(w, err)
		if !isClientError(err) {
			s.logger.Error("failed to pause zone", "error", err, "id", id)
		}
		return
	}

	writeData(w, http.StatusOK, receipt)
}

// isClientError reports whether the error is the caller's fault and
// already mapped to a 4xx by writeDomainError.
func isClientError(err error) bool {
	return errors.Is(err, zone.ErrZoneNotFound) ||
		errors.Is(err, zone.ErrZoneExists) ||
		errors.Is(err, zone.ErrInvalidZone) ||
		errors.Is(err, zone.ErrInvalidStatus) ||
		errors.Is(err, zone.ErrInvalidValveStatus) ||
		errors.Is(err, zone.ErrInvalidSchedule)
}
