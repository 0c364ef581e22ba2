package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteZoneMetric writes a single zone sensor measurement to InfluxDB.
//
// This is the primary method for recording zone telemetry data.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Example:
//
//	client.WriteZoneMetric("zone-north-01", "soil_moisture", 42.5)
//	client.WriteZoneMetric("zone-north-01", "pressure_bar", 2.1)
func (c *Client) WriteZoneMetric(zoneID string, measurement string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"zone_metrics",
		map[string]string{
			"zone_id":     zoneID,
			"measurement": measurement,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteWaterUsage writes a water consumption measurement for a zone.
//
// Parameters:
//   - farmID: Owning farm, used as a tag for per-farm aggregation
//   - zoneID: Zone identifier
//   - litres: Water delivered by the run that just finished
//   - cumulativeLitres: Zone lifetime total after the run
func (c *Client) WriteWaterUsage(farmID, zoneID string, litres, cumulativeLitres float64) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{
		"litres": litres,
	}
	if cumulativeLitres > 0 {
		fields["cumulative_litres"] = cumulativeLitres
	}

	point := write.NewPoint(
		"water_usage",
		map[string]string{
			"farm_id": farmID,
			"zone_id": zoneID,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSystemStatus writes a farm-wide status snapshot.
//
// Recorded after aggregator recomputation so dashboards can chart
// active-zone counts and system pressure over time.
func (c *Client) WriteSystemStatus(farmID string, activeZones, totalZones int, systemPressure float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"system_status",
		map[string]string{
			"farm_id": farmID,
		},
		map[string]interface{}{
			"active_zones":    activeZones,
			"total_zones":     totalZones,
			"system_pressure": systemPressure,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed sensor data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
