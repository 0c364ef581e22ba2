package control

import (
	"context"

	"github.com/tillerlabs/farmcore/internal/zone"
)

// Events receives notifications after successful commands. Implementations
// fan state changes out to WebSocket clients, MQTT, and InfluxDB; failed
// commands never reach these hooks.
type Events interface {
	// ZoneStateChanged fires after a zone command or administrative
	// change mutates a zone's operational state.
	ZoneStateChanged(ctx context.Context, z *zone.IrrigationZone, command string)

	// WaterUsage fires when a stop command accrues water usage.
	// litres is the delivery of the run that just finished.
	WaterUsage(ctx context.Context, z *zone.IrrigationZone, litres float64)

	// SystemChanged fires after a bulk or emergency operation so farm-wide
	// status consumers can recompute and republish.
	SystemChanged(ctx context.Context, farmID string)
}

// NoopEvents discards all notifications. Used as the default and in tests.
type NoopEvents struct{}

func (NoopEvents) ZoneStateChanged(context.Context, *zone.IrrigationZone, string) {}
func (NoopEvents) WaterUsage(context.Context, *zone.IrrigationZone, float64)      {}
func (NoopEvents) SystemChanged(context.Context, string)                          {}

// Recorder persists issued commands for the audit trail.
type Recorder interface {
	RecordCommand(ctx context.Context, rec CommandRecord) error
}

// CommandRecord describes one physical-state-changing command.
type CommandRecord struct {
	FarmID   string
	ZoneID   string // empty for farm-wide commands
	Command  string
	Actor    string
	Duration int // minutes, start commands only
}

// NoopRecorder discards command records.
type NoopRecorder struct{}

func (NoopRecorder) RecordCommand(context.Context, CommandRecord) error { return nil }

// actorKey is the context key for the authenticated actor.
type actorKey struct{}

// WithActor returns a context carrying the acting user's identity.
// The API middleware sets this from the JWT subject.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom extracts the acting user from the context, or "system" when
// no actor is attached (startup tasks, scheduled jobs).
func ActorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return "system"
}
