// Package system provides the farm-wide status aggregator for FarmCore.
//
// A farm's SystemStatus has two halves:
//
//   - Commanded flags (enabled, autoMode, emergencyMode): mutated only by
//     explicit system commands, persisted per farm in the system_state
//     table so an emergency survives a restart.
//   - Derived metrics (totalZones, activeZones, totalWaterUsage,
//     systemPressure): recomputed from a fresh zone scan on every read.
//
// systemPressure is the mean pressure of zones with status active, 0
// when none are active.
//
// DisableSystem cascades through the orchestrator's bulk stop before
// flipping the flag, so a disabled farm never has an open valve. The
// orchestrator is injected through the BulkStopper interface to keep
// this package free of a control dependency.
package system
