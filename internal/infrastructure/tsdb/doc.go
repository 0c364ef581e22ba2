// Package tsdb provides the local time-series store for FarmCore.
//
// Water usage samples are appended to the usage_samples table in the
// main SQLite database, one row per stop command that released water.
// Analytics queries aggregate them into daily totals. High-resolution
// telemetry export goes to InfluxDB through the metrics adapter; this
// store exists so usage history survives without any external service.
//
// # Usage
//
//	store := tsdb.NewStore(db)
//	store.RecordUsage(ctx, "farm-001", "zone-north-01", 1200, time.Now())
//
//	history, err := store.UsageHistory(ctx, "farm-001", 7)
//
// # Thread Safety
//
// All methods are safe for concurrent use; SQLite serialises writers.
package tsdb
