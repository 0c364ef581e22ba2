package system

import (
	"context"
	"time"

	"github.com/tillerlabs/farmcore/internal/zone"
)

// Status is the farm-wide system view: commanded flags plus metrics
// derived from a fresh zone scan. Derived fields are recomputed on every
// read, never served from a cached snapshot.
type Status struct {
	FarmID          string    `json:"farmId"`
	Enabled         bool      `json:"enabled"`
	AutoMode        bool      `json:"autoMode"`
	EmergencyMode   bool      `json:"emergencyMode"`
	TotalZones      int       `json:"totalZones"`
	ActiveZones     int       `json:"activeZones"`
	TotalWaterUsage float64   `json:"totalWaterUsage"` // litres
	SystemPressure  float64   `json:"systemPressure"`  // bar, mean of active zones
	LastUpdate      time.Time `json:"lastUpdate"`
}

// BulkStopper shuts down every zone of a farm. Implemented by the
// control package's Orchestrator; defined here so the aggregator does
// not depend on it.
type BulkStopper interface {
	StopAllZones(ctx context.Context, farmID string) (int, error)
}

// StopperFunc adapts a function to the BulkStopper interface.
type StopperFunc func(ctx context.Context, farmID string) (int, error)

// StopAllZones calls the wrapped function.
func (f StopperFunc) StopAllZones(ctx context.Context, farmID string) (int, error) {
	return f(ctx, farmID)
}

// noopStopper is used until a real stopper is wired.
type noopStopper struct{}

func (noopStopper) StopAllZones(context.Context, string) (int, error) { return 0, nil }

// Logger defines the logging interface used by the system package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Manager aggregates farm-wide status and owns the system toggles.
type Manager struct {
	zones   *zone.Registry
	flags   *Store
	stopper BulkStopper
	logger  Logger
}

// NewManager creates a system manager.
func NewManager(zones *zone.Registry, flags *Store) *Manager {
	return &Manager{
		zones:   zones,
		flags:   flags,
		stopper: noopStopper{},
		logger:  noopLogger{},
	}
}

// SetStopper wires the bulk shutdown used by DisableSystem's cascade.
func (m *Manager) SetStopper(stopper BulkStopper) {
	if stopper != nil {
		m.stopper = stopper
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// Flags returns the farm's persisted toggles.
func (m *Manager) Flags(ctx context.Context, farmID string) (Flags, error) {
	return m.flags.GetFlags(ctx, farmID)
}

// Status recomputes the farm-wide view from a fresh zone scan.
// systemPressure is the mean pressure of active zones, 0 when none are
// active.
func (m *Manager) Status(ctx context.Context, farmID string) (*Status, error) {
	flags, err := m.flags.GetFlags(ctx, farmID)
	if err != nil {
		return nil, err
	}

	zones, err := m.zones.ListZones(ctx, farmID)
	if err != nil {
		return nil, err
	}

	status := &Status{
		FarmID:        farmID,
		Enabled:       flags.Enabled,
		AutoMode:      flags.AutoMode,
		EmergencyMode: flags.EmergencyMode,
		TotalZones:    len(zones),
		LastUpdate:    time.Now().UTC(),
	}

	var pressureSum float64
	for _, z := range zones {
		status.TotalWaterUsage += z.WaterUsage
		if z.Status == zone.StatusActive {
			status.ActiveZones++
			pressureSum += z.Pressure
		}
	}
	if status.ActiveZones > 0 {
		status.SystemPressure = pressureSum / float64(status.ActiveZones)
	}

	return status, nil
}

// EnableSystem turns the farm's system on.
func (m *Manager) EnableSystem(ctx context.Context, farmID string) (*Status, error) {
	if err := m.flags.SetEnabled(ctx, farmID, true); err != nil {
		return nil, err
	}
	m.logger.Info("system enabled", "farm_id", farmID)
	return m.Status(ctx, farmID)
}

// DisableSystem turns the farm's system off. Running zones are shut
// down through the orchestrator's bulk stop before the flag flips, so a
// disabled farm never has an open valve.
func (m *Manager) DisableSystem(ctx context.Context, farmID string) (*Status, error) {
	stopped, err := m.stopper.StopAllZones(ctx, farmID)
	if err != nil {
		return nil, err
	}

	if err := m.flags.SetEnabled(ctx, farmID, false); err != nil {
		return nil, err
	}
	m.logger.Info("system disabled", "farm_id", farmID, "zones_stopped", stopped)
	return m.Status(ctx, farmID)
}

// EnableAutoMode turns automatic scheduling on. Zone states are untouched.
func (m *Manager) EnableAutoMode(ctx context.Context, farmID string) (*Status, error) {
	if err := m.flags.SetAutoMode(ctx, farmID, true); err != nil {
		return nil, err
	}
	m.logger.Info("auto mode enabled", "farm_id", farmID)
	return m.Status(ctx, farmID)
}

// DisableAutoMode turns automatic scheduling off. Zone states are untouched.
func (m *Manager) DisableAutoMode(ctx context.Context, farmID string) (*Status, error) {
	if err := m.flags.SetAutoMode(ctx, farmID, false); err != nil {
		return nil, err
	}
	m.logger.Info("auto mode disabled", "farm_id", farmID)
	return m.Status(ctx, farmID)
}
