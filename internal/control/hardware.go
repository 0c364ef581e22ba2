package control

import (
	"context"
	"time"

	"github.com/tillerlabs/farmcore/internal/infrastructure/config"
)

// HardwareLatency models the round-trip time of commanding valve hardware.
// Await suspends the caller for d, honouring context cancellation, and has
// no other side effect.
type HardwareLatency interface {
	Await(ctx context.Context, d time.Duration) error
}

// SimulatedLatency is the production implementation: a plain timer wait.
type SimulatedLatency struct{}

// Await blocks for d or until the context is cancelled.
func (SimulatedLatency) Await(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Instant is a zero-delay implementation for tests.
type Instant struct{}

// Await returns immediately, still honouring a cancelled context.
func (Instant) Await(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// NewHardware selects the latency implementation from config.
// Simulate=false means no latency layer at all (zero delay); real
// protocol drivers are a separate concern.
func NewHardware(cfg config.HardwareConfig) HardwareLatency {
	if cfg.Simulate {
		return SimulatedLatency{}
	}
	return Instant{}
}

// Profile holds per-command hardware latencies.
type Profile struct {
	Start               time.Duration
	Stop                time.Duration
	Pause               time.Duration
	EmergencyActivate   time.Duration
	EmergencyDeactivate time.Duration
	StopAll             time.Duration
}

// DefaultProfile returns the nominal valve latencies.
func DefaultProfile() Profile {
	return Profile{
		Start:               1000 * time.Millisecond,
		Stop:                800 * time.Millisecond,
		Pause:               500 * time.Millisecond,
		EmergencyActivate:   2000 * time.Millisecond,
		EmergencyDeactivate: 1500 * time.Millisecond,
		StopAll:             1500 * time.Millisecond,
	}
}

// ProfileFromConfig builds a Profile from the configured millisecond values.
func ProfileFromConfig(cfg config.LatencyConfig) Profile {
	return Profile{
		Start:               time.Duration(cfg.Start) * time.Millisecond,
		Stop:                time.Duration(cfg.Stop) * time.Millisecond,
		Pause:               time.Duration(cfg.Pause) * time.Millisecond,
		EmergencyActivate:   time.Duration(cfg.EmergencyActivate) * time.Millisecond,
		EmergencyDeactivate: time.Duration(cfg.EmergencyDeactivate) * time.Millisecond,
		StopAll:             time.Duration(cfg.StopAll) * time.Millisecond,
	}
}
