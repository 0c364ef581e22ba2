package api

import (
	"context"
	"encoding/json"

	"github.com/tillerlabs/farmcore/internal/infrastructure/influxdb"
	"github.com/tillerlabs/farmcore/internal/infrastructure/logging"
	"github.com/tillerlabs/farmcore/internal/infrastructure/mqtt"
	"github.com/tillerlabs/farmcore/internal/infrastructure/tsdb"
	"github.com/tillerlabs/farmcore/internal/system"
	"github.com/tillerlabs/farmcore/internal/zone"
)

// Fanout implements the control package's Events interface, pushing
// successful command outcomes to WebSocket clients, MQTT, InfluxDB, and
// the local usage store. Every sink is optional; a nil sink is skipped.
type Fanout struct {
	hub    *Hub
	mqtt   *mqtt.Client
	influx *influxdb.Client
	usage  *tsdb.Store
	system *system.Manager
	logger *logging.Logger
}

// NewFanout creates the event fan-out. Nil sinks are allowed and skipped.
func NewFanout(hub *Hub, mqttClient *mqtt.Client, influx *influxdb.Client, usage *tsdb.Store, sys *system.Manager, logger *logging.Logger) *Fanout {
	return &Fanout{
		hub:    hub,
		mqtt:   mqttClient,
		influx: influx,
		usage:  usage,
		system: sys,
		logger: logger,
	}
}

// ZoneStateChanged broadcasts the zone's new state to WebSocket clients,
// publishes it retained on MQTT, and writes telemetry to InfluxDB.
func (f *Fanout) ZoneStateChanged(_ context.Context, z *zone.IrrigationZone, command string) {
	payload := map[string]any{
		"zoneId":      z.ID,
		"farmId":      z.FarmID,
		"command":     command,
		"status":      z.Status,
		"valveStatus": z.ValveStatus,
	}

	if f.hub != nil {
		f.hub.Broadcast(z.FarmID, ChannelZoneState, payload)
	}

	if f.mqtt != nil {
		data, err := json.Marshal(payload)
		if err == nil {
			if err := f.mqtt.PublishRetained(mqtt.Topics{}.ZoneState(z.ID), data); err != nil {
				f.logger.Warn("mqtt zone state publish failed", "zone_id", z.ID, "error", err)
			}
		}
	}

	if f.influx != nil {
		f.influx.WriteZoneMetric(z.ID, "soil_moisture", z.SoilMoisture)
		f.influx.WriteZoneMetric(z.ID, "pressure", z.Pressure)
		f.influx.WriteZoneMetric(z.ID, "flow_rate", z.FlowRate)
	}
}

// WaterUsage records the finished run's delivery in the local usage store
// and InfluxDB, and notifies WebSocket subscribers.
func (f *Fanout) WaterUsage(ctx context.Context, z *zone.IrrigationZone, litres float64) {
	if f.usage != nil {
		if err := f.usage.RecordUsage(ctx, z.FarmID, z.ID, litres, z.UpdatedAt); err != nil {
			f.logger.Warn("usage sample write failed", "zone_id", z.ID, "error", err)
		}
	}

	if f.influx != nil {
		f.influx.WriteWaterUsage(z.FarmID, z.ID, litres, z.WaterUsage)
	}

	if f.hub != nil {
		f.hub.Broadcast(z.FarmID, ChannelWaterUsage, map[string]any{
			"zoneId": z.ID,
			"farmId": z.FarmID,
			"litres": litres,
			"total":  z.WaterUsage,
		})
	}
}

// SystemChanged recomputes the farm's status and republishes it to
// WebSocket clients, MQTT, and InfluxDB.
func (f *Fanout) SystemChanged(ctx context.Context, farmID string) {
	if f.system == nil {
		return
	}

	status, err := f.system.Status(ctx, farmID)
	if err != nil {
		f.logger.Warn("status recompute after bulk operation failed", "farm_id", farmID, "error", err)
		return
	}

	if f.hub != nil {
		f.hub.Broadcast(farmID, ChannelSystemStatus, status)
	}

	if f.mqtt != nil {
		data, err := json.Marshal(status)
		if err == nil {
			if err := f.mqtt.PublishRetained(mqtt.Topics{}.FarmStatus(farmID), data); err != nil {
				f.logger.Warn("mqtt system status publish failed", "farm_id", farmID, "error", err)
			}
		}
	}

	if f.influx != nil {
		f.influx.WriteSystemStatus(farmID, status.ActiveZones, status.TotalZones, status.SystemPressure)
	}
}
