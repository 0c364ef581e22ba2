package control

import (
	"context"
	"time"

	"github.com/tillerlabs/farmcore/internal/zone"
)

// DefaultRunMinutes is the watering duration applied when a start command
// does not specify one.
const DefaultRunMinutes = 30

// Logger defines the logging interface used by the control package.
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

// Controller executes single-zone irrigation commands.
//
// Commands follow the zone state machine:
//
//	inactive ──start──▶ active ──stop──▶ inactive
//	                    active ──pause─▶ paused
//
// maintenance and error are set and cleared only by administrative
// updates, never by these commands. Commands are idempotent in effect:
// starting an active zone or stopping an inactive one converges on the
// same final state.
//
// Each command validates the target exists before any hardware latency,
// then holds the farm read lock plus the zone lock across the latency
// await and the store mutation.
type Controller struct {
	store   *zone.Registry
	hw      HardwareLatency
	profile Profile
	locks   *LockTable
	events  Events
	rec     Recorder
	logger  Logger
}

// NewController creates a zone controller.
func NewController(store *zone.Registry, hw HardwareLatency, profile Profile, locks *LockTable) *Controller {
	return &Controller{
		store:   store,
		hw:      hw,
		profile: profile,
		locks:   locks,
		events:  NoopEvents{},
		rec:     NoopRecorder{},
		logger:  noopLogger{},
	}
}

// SetEvents sets the fan-out hooks for successful commands.
func (c *Controller) SetEvents(events Events) {
	if events != nil {
		c.events = events
	}
}

// SetRecorder sets the command audit recorder.
func (c *Controller) SetRecorder(rec Recorder) {
	if rec != nil {
		c.rec = rec
	}
}

// SetLogger sets the logger for the controller.
func (c *Controller) SetLogger(logger Logger) {
	c.logger = logger
}

// StartReceipt confirms a start command.
type StartReceipt struct {
	ZoneID    string    `json:"zoneId"`
	Duration  int       `json:"duration"` // minutes
	StartedAt time.Time `json:"startedAt"`
}

// StopReceipt confirms a stop command.
type StopReceipt struct {
	ZoneID    string    `json:"zoneId"`
	StoppedAt time.Time `json:"stoppedAt"`
}

// PauseReceipt confirms a pause command.
type PauseReceipt struct {
	ZoneID   string    `json:"zoneId"`
	PausedAt time.Time `json:"pausedAt"`
}

// Start opens a zone's valve and marks it active.
// durationMinutes <= 0 applies DefaultRunMinutes.
// Returns zone.ErrZoneNotFound before any latency if the zone is unknown.
func (c *Controller) Start(ctx context.Context, farmID, zoneID string, durationMinutes int) (*StartReceipt, error) {
	if durationMinutes <= 0 {
		durationMinutes = DefaultRunMinutes
	}

	farmLock := c.locks.farm(farmID)
	farmLock.RLock()
	defer farmLock.RUnlock()

	zoneLock := c.locks.zone(zoneID)
	zoneLock.Lock()
	defer zoneLock.Unlock()

	z, err := c.store.GetZone(ctx, farmID, zoneID)
	if err != nil {
		return nil, err
	}

	if err := c.hw.Await(ctx, c.profile.Start); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	z.Status = zone.StatusActive
	z.ValveStatus = zone.ValveOpen
	z.LastWatered = &now

	if err := c.store.UpdateZone(ctx, z); err != nil {
		return nil, err
	}

	c.afterCommand(ctx, z, "start", durationMinutes)
	c.logger.Info("zone started", "farm_id", farmID, "zone_id", zoneID, "duration", durationMinutes)

	return &StartReceipt{ZoneID: zoneID, Duration: durationMinutes, StartedAt: now}, nil
}

// Stop closes a zone's valve and marks it inactive.
// When the zone was running or paused mid-run, the delivered water
// (flowRate × elapsed minutes since lastWatered) is accrued onto the
// zone's usage total.
func (c *Controller) Stop(ctx context.Context, farmID, zoneID string) (*StopReceipt, error) {
	farmLock := c.locks.farm(farmID)
	farmLock.RLock()
	defer farmLock.RUnlock()

	zoneLock := c.locks.zone(zoneID)
	zoneLock.Lock()
	defer zoneLock.Unlock()

	z, err := c.store.GetZone(ctx, farmID, zoneID)
	if err != nil {
		return nil, err
	}

	if err := c.hw.Await(ctx, c.profile.Stop); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var litres float64
	running := z.Status == zone.StatusActive || z.Status == zone.StatusPaused
	if running && z.LastWatered != nil {
		minutes := now.Sub(*z.LastWatered).Minutes()
		if minutes > 0 {
			litres = z.FlowRate * minutes
			z.WaterUsage += litres
		}
	}

	z.Status = zone.StatusInactive
	z.ValveStatus = zone.ValveClosed

	if err := c.store.UpdateZone(ctx, z); err != nil {
		return nil, err
	}

	if litres > 0 {
		c.events.WaterUsage(ctx, z, litres)
	}
	c.afterCommand(ctx, z, "stop", 0)
	c.logger.Info("zone stopped", "farm_id", farmID, "zone_id", zoneID, "litres", litres)

	return &StopReceipt{ZoneID: zoneID, StoppedAt: now}, nil
}

// Pause throttles a running zone: status paused, valve partial.
// The run's lastWatered timestamp is kept so a later stop still accounts
// for the water delivered before the pause.
func (c *Controller) Pause(ctx context.Context, farmID, zoneID string) (*PauseReceipt, error) {
	farmLock := c.locks.farm(farmID)
	farmLock.RLock()
	defer farmLock.RUnlock()

	zoneLock := c.locks.zone(zoneID)
	zoneLock.Lock()
	defer zoneLock.Unlock()

	z, err := c.store.GetZone(ctx, farmID, zoneID)
	if err != nil {
		return nil, err
	}

	if err := c.hw.Await(ctx, c.profile.Pause); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	z.Status = zone.StatusPaused
	z.ValveStatus = zone.ValvePartial

	if err := c.store.UpdateZone(ctx, z); err != nil {
		return nil, err
	}

	c.afterCommand(ctx, z, "pause", 0)
	c.logger.Info("zone paused", "farm_id", farmID, "zone_id", zoneID)

	return &PauseReceipt{ZoneID: zoneID, PausedAt: now}, nil
}

// UpdateZone applies an administrative update under the same
// serialization as commands: farm read lock plus zone lock. The record
// is read fresh under the lock, mutated by apply, then validated and
// persisted, so an update can neither clobber a concurrent command's
// result nor resurrect pre-sweep state after a bulk operation.
// Administrative updates touch no hardware, so there is no latency await.
func (c *Controller) UpdateZone(ctx context.Context, farmID, zoneID string, apply func(*zone.IrrigationZone)) (*zone.IrrigationZone, error) {
	farmLock := c.locks.farm(farmID)
	farmLock.RLock()
	defer farmLock.RUnlock()

	zoneLock := c.locks.zone(zoneID)
	zoneLock.Lock()
	defer zoneLock.Unlock()

	z, err := c.store.GetZone(ctx, farmID, zoneID)
	if err != nil {
		return nil, err
	}

	apply(z)

	if err := c.store.UpdateZone(ctx, z); err != nil {
		return nil, err
	}

	c.events.ZoneStateChanged(ctx, z, "update")
	c.logger.Info("zone updated", "farm_id", farmID, "zone_id", zoneID)

	return z, nil
}

// afterCommand runs the success hooks: audit record and state fan-out.
func (c *Controller) afterCommand(ctx context.Context, z *zone.IrrigationZone, command string, duration int) {
	rec := CommandRecord{
		FarmID:   z.FarmID,
		ZoneID:   z.ID,
		Command:  command,
		Actor:    ActorFrom(ctx),
		Duration: duration,
	}
	if err := c.rec.RecordCommand(ctx, rec); err != nil {
		c.logger.Warn("recording command failed", "command", command, "error", err)
	}

	c.events.ZoneStateChanged(ctx, z, command)
}
