// Package control executes irrigation commands against zone valve
// hardware for FarmCore.
//
// Two command surfaces share one lock table:
//
//   - Controller: single-zone start/stop/pause following the zone state
//     machine, holding the farm read lock plus a per-zone lock.
//   - Orchestrator: farm-wide stop-all and emergency activate/deactivate,
//     holding the farm write lock and committing the sweep in one store
//     transaction.
//
// Both await a HardwareLatency port before mutating state, modelling the
// round-trip time of real valve hardware. Production uses
// SimulatedLatency; tests inject Instant.
//
// # Usage
//
//	locks := control.NewLockTable()
//	hw := control.NewHardware(cfg.Hardware)
//	profile := control.ProfileFromConfig(cfg.Hardware.Latencies)
//
//	ctrl := control.NewController(store, hw, profile, locks)
//	orch := control.NewOrchestrator(store, hw, profile, locks)
//
//	receipt, err := ctrl.Start(ctx, farmID, zoneID, 30)
//
// Successful commands fan out through the Events interface (WebSocket,
// MQTT, InfluxDB) and are written to the audit trail via Recorder. A
// failed command performs no state change and reaches neither hook.
package control
