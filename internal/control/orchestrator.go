package control

import (
	"context"
	"time"

	"github.com/tillerlabs/farmcore/internal/zone"
)

// FlagStore persists the farm-wide emergency flag. Implemented by the
// system package's flag store; defined here so the orchestrator does not
// depend on it.
type FlagStore interface {
	SetEmergencyMode(ctx context.Context, farmID string, on bool) error
}

// noopFlags discards flag changes. Used in tests that only care about
// the zone sweep.
type noopFlags struct{}

func (noopFlags) SetEmergencyMode(context.Context, string, bool) error { return nil }

// Orchestrator executes farm-wide bulk and emergency operations.
//
// Every operation holds the farm write lock across the hardware latency
// await and the sweep, and the sweep itself is a single store
// transaction. No per-zone command interleaves and no reader observes a
// half-applied bulk mutation.
type Orchestrator struct {
	store   *zone.Registry
	hw      HardwareLatency
	profile Profile
	locks   *LockTable
	flags   FlagStore
	events  Events
	rec     Recorder
	logger  Logger
}

// NewOrchestrator creates a bulk/emergency orchestrator sharing the
// controller's lock table.
func NewOrchestrator(store *zone.Registry, hw HardwareLatency, profile Profile, locks *LockTable) *Orchestrator {
	return &Orchestrator{
		store:   store,
		hw:      hw,
		profile: profile,
		locks:   locks,
		flags:   noopFlags{},
		events:  NoopEvents{},
		rec:     NoopRecorder{},
		logger:  noopLogger{},
	}
}

// SetFlagStore sets the persisted emergency-flag store.
func (o *Orchestrator) SetFlagStore(flags FlagStore) {
	if flags != nil {
		o.flags = flags
	}
}

// SetEvents sets the fan-out hooks for successful operations.
func (o *Orchestrator) SetEvents(events Events) {
	if events != nil {
		o.events = events
	}
}

// SetRecorder sets the command audit recorder.
func (o *Orchestrator) SetRecorder(rec Recorder) {
	if rec != nil {
		o.rec = rec
	}
}

// SetLogger sets the logger for the orchestrator.
func (o *Orchestrator) SetLogger(logger Logger) {
	o.logger = logger
}

// StopAllReceipt confirms a farm-wide stop.
type StopAllReceipt struct {
	StoppedAt     time.Time `json:"stoppedAt"`
	ZonesAffected int       `json:"zonesAffected"`
}

// ActivateEmergency drives every zone of the farm to active/open and
// raises the persisted emergency flag. Idempotent.
func (o *Orchestrator) ActivateEmergency(ctx context.Context, farmID string) error {
	farmLock := o.locks.farm(farmID)
	farmLock.Lock()
	defer farmLock.Unlock()

	if err := o.hw.Await(ctx, o.profile.EmergencyActivate); err != nil {
		return err
	}

	affected, err := o.store.TransitionAll(ctx, farmID, zone.StatusActive, zone.ValveOpen)
	if err != nil {
		return err
	}

	if err := o.flags.SetEmergencyMode(ctx, farmID, true); err != nil {
		return err
	}

	o.afterOperation(ctx, farmID, "emergency_activate")
	o.logger.Warn("emergency activated", "farm_id", farmID, "zones", affected)
	return nil
}

// DeactivateEmergency drives every zone of the farm to inactive/closed
// and clears the persisted emergency flag. Idempotent.
func (o *Orchestrator) DeactivateEmergency(ctx context.Context, farmID string) error {
	farmLock := o.locks.farm(farmID)
	farmLock.Lock()
	defer farmLock.Unlock()

	if err := o.hw.Await(ctx, o.profile.EmergencyDeactivate); err != nil {
		return err
	}

	affected, err := o.store.TransitionAll(ctx, farmID, zone.StatusInactive, zone.ValveClosed)
	if err != nil {
		return err
	}

	if err := o.flags.SetEmergencyMode(ctx, farmID, false); err != nil {
		return err
	}

	o.afterOperation(ctx, farmID, "emergency_deactivate")
	o.logger.Info("emergency deactivated", "farm_id", farmID, "zones", affected)
	return nil
}

// StopAll drives every zone of the farm to inactive/closed. The emergency
// flag is left untouched. Idempotent: stopping an already-stopped farm
// sweeps to the same state.
func (o *Orchestrator) StopAll(ctx context.Context, farmID string) (*StopAllReceipt, error) {
	farmLock := o.locks.farm(farmID)
	farmLock.Lock()
	defer farmLock.Unlock()

	if err := o.hw.Await(ctx, o.profile.StopAll); err != nil {
		return nil, err
	}

	affected, err := o.store.TransitionAll(ctx, farmID, zone.StatusInactive, zone.ValveClosed)
	if err != nil {
		return nil, err
	}

	o.afterOperation(ctx, farmID, "stop_all")
	o.logger.Info("all zones stopped", "farm_id", farmID, "zones", affected)

	return &StopAllReceipt{StoppedAt: time.Now().UTC(), ZonesAffected: affected}, nil
}

// afterOperation runs the success hooks: audit record and system fan-out.
func (o *Orchestrator) afterOperation(ctx context.Context, farmID, command string) {
	rec := CommandRecord{
		FarmID:  farmID,
		Command: command,
		Actor:   ActorFrom(ctx),
	}
	if err := o.rec.RecordCommand(ctx, rec); err != nil {
		o.logger.Warn("recording command failed", "command", command, "error", err)
	}

	o.events.SystemChanged(ctx, farmID)
}
