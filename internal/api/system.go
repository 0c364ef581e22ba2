package api

import (
	"net/http"
)

// handleSystemStatus returns the farm-wide aggregated status.
// Derived metrics are recomputed from a fresh zone scan on every call.
//
// GET /system/status
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.system.Status(r.Context(), farmFrom(r.Context()))
	if err != nil {
		s.logger.Error("failed to aggregate system status", "error", err)
		writeInternalError(w, "failed to aggregate system status")
		return
	}
	writeData(w, http.StatusOK, status)
}

// handleEnableSystem turns the farm's system on.
//
// POST /system/enable
func (s *Server) handleEnableSystem(w http.ResponseWriter, r *http.Request) {
	status, err := s.system.EnableSystem(r.Context(), farmFrom(r.Context()))
	if err != nil {
		s.logger.Error("failed to enable system", "error", err)
		writeInternalError(w, "failed to enable system")
		return
	}
	writeData(w, http.StatusOK, status)
}

// handleDisableSystem turns the farm's system off, stopping every
// running zone through the orchestrator first.
//
// POST /system/disable
func (s *Server) handleDisableSystem(w http.ResponseWriter, r *http.Request) {
	status, err := s.system.DisableSystem(r.Context(), farmFrom(r.Context()))
	if err != nil {
		s.logger.Error("failed to disable system", "error", err)
		writeInternalError(w, "failed to disable system")
		return
	}
	writeData(w, http.StatusOK, status)
}

// handleEnableAutoMode turns automatic scheduling on.
//
// POST /system/auto-mode/enable
func (s *Server) handleEnableAutoMode(w http.ResponseWriter, r *http.Request) {
	status, err := s.system.EnableAutoMode(r.Context(), farmFrom(r.Context()))
	if err != nil {
		s.logger.Error("failed to enable auto mode", "error", err)
		writeInternalError(w, "failed to enable auto mode")
		return
	}
	writeData(w, http.StatusOK, status)
}

// handleDisableAutoMode turns automatic scheduling off.
//
// POST /system/auto-mode/disable
func (s *Server) handleDisableAutoMode(w http.ResponseWriter, r *http.Request) {
	status, err := s.system.DisableAutoMode(r.Context(), farmFrom(r.Context()))
	if err != nil {
		s.logger.Error("failed to disable auto mode", "error", err)
		writeInternalError(w, "failed to disable auto mode")
		return
	}
	writeData(w, http.StatusOK, status)
}

// handleActivateEmergency forces every zone of the farm to active/open.
//
// POST /system/emergency/activate
// Response: 200 with the recomputed SystemStatus
func (s *Server) handleActivateEmergency(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	farmID := farmFrom(ctx)

	if err := s.orch.ActivateEmergency(ctx, farmID); err != nil {
		s.logger.Error("failed to activate emergency", "error", err)
		writeInternalError(w, "failed to activate emergency")
		return
	}

	status, err := s.system.Status(ctx, farmID)
	if err != nil {
		s.logger.Error("failed to aggregate system status", "error", err)
		writeInternalError(w, "failed to aggregate system status")
		return
	}
	writeData(w, http.StatusOK, status)
}

// handleDeactivateEmergency returns every zone of the farm to inactive/closed.
//
// POST /system/emergency/deactivate
func (s *Server) handleDeactivateEmergency(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	farmID := farmFrom(ctx)

	if err := s.orch.DeactivateEmergency(ctx, farmID); err != nil {
		s.logger.Error("failed to deactivate emergency", "error", err)
		writeInternalError(w, "failed to deactivate emergency")
		return
	}

	status, err := s.system.Status(ctx, farmID)
	if err != nil {
		s.logger.Error("failed to aggregate system status", "error", err)
		writeInternalError(w, "failed to aggregate system status")
		return
	}
	writeData(w, http.StatusOK, status)
}

// handleStopAll stops every zone of the farm. The emergency flag is untouched.
//
// POST /system/stop-all
// Response: {"success": true, "data": {"stoppedAt", "zonesAffected"}}
func (s *Server) handleStopAll(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.orch.StopAll(r.Context(), farmFrom(r.Context()))
	if err != nil {
		s.logger.Error("failed to stop all zones", "error", err)
		writeInternalError(w, "failed to stop all zones")
		return
	}
	writeData(w, http.StatusOK, receipt)
}
