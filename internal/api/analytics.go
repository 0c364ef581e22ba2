package api

import (
	"net/http"
	"strconv"

	"github.com/tillerlabs/farmcore/internal/audit"
)

// handleWaterUsage returns the farm's daily water usage history.
//
// GET /analytics/water-usage?days=7
func (s *Server) handleWaterUsage(w http.ResponseWriter, r *http.Request) {
	if s.analytics == nil {
		writeInternalError(w, "analytics not configured")
		return
	}

	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "days must be an integer")
			return
		}
		days = parsed
	}

	report, err := s.analytics.WaterUsage(r.Context(), farmFrom(r.Context()), days)
	if err != nil {
		s.logger.Error("failed to query water usage", "error", err)
		writeInternalError(w, "failed to query water usage")
		return
	}
	writeData(w, http.StatusOK, report)
}

// handleWeather returns the farm's current (mock) weather conditions.
//
// GET /analytics/weather
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	weather, err := s.weather.CurrentWeather(r.Context(), farmFrom(r.Context()))
	if err != nil {
		s.logger.Error("failed to fetch weather", "error", err)
		writeInternalError(w, "failed to fetch weather")
		return
	}
	writeData(w, http.StatusOK, weather)
}

// handleListAudit returns the farm's command audit trail, newest first.
//
// GET /audit?zoneId=...&command=...&limit=50&offset=0
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeData(w, http.StatusOK, audit.ListResult{Entries: []audit.Entry{}})
		return
	}

	filter := audit.Filter{
		FarmID:  farmFrom(r.Context()),
		ZoneID:  r.URL.Query().Get("zoneId"),
		Command: r.URL.Query().Get("command"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v) //nolint:errcheck // zero limit falls back to default
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v) //nolint:errcheck // zero offset is the first page
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list audit entries", "error", err)
		writeInternalError(w, "failed to list audit entries")
		return
	}
	writeData(w, http.StatusOK, result)
}
