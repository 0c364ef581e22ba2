// Package zone provides the Zone Store for FarmCore.
//
// The Zone Store is the authoritative catalogue of irrigation zones per
// farm. It manages zone lifecycle, validation, and query operations for
// the REST API, the zone controller, and the system aggregator.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────────────────┐
//	│                             Zone Store                                   │
//	│                                                                          │
//	│  ┌──────────────────┐    ┌──────────────────┐    ┌──────────────────┐   │
//	│  │     Registry     │    │    Repository    │    │    Validation    │   │
//	│  │   (registry.go)  │───▶│  (repository.go) │    │ (validation.go)  │   │
//	│  │                  │    │                  │    │                  │   │
//	│  │ • CRUD ops       │    │ • SQLite queries │    │ • Zone checks    │   │
//	│  │ • In-memory cache│    │ • JSON marshal   │    │ • Coordinate     │   │
//	│  │ • Thread safety  │    │ • TransitionAll  │    │   and telemetry  │   │
//	│  └──────────────────┘    └──────────────────┘    │   bounds         │   │
//	│                                                  └──────────────────┘   │
//	└──────────────────────────────────────────────────────────────────────────┘
//
// # Key Types
//
//   - IrrigationZone: One physical irrigation area with status, valve
//     position, sensor telemetry, and schedules
//   - Status: Operational state (active, inactive, scheduled, paused,
//     maintenance, error)
//   - ValveStatus: Physical valve position (open, closed, partial)
//   - IrrigationSchedule: Recurring watering rule owned by one zone
//
// # Usage
//
//	// Create repository and registry
//	repo := zone.NewSQLiteRepository(db)
//	registry := zone.NewRegistry(repo)
//	registry.SetLogger(log)
//
//	// Load the default farm's zones on startup
//	if err := registry.RefreshFarm(ctx, farmID); err != nil {
//	    return err
//	}
//
//	// Create a new zone
//	z := &zone.IrrigationZone{
//	    FarmID:   farmID,
//	    Name:     "North Field",
//	    Area:     12.5,
//	    CropType: "wheat",
//	    FlowRate: 120,
//	}
//	if err := registry.CreateZone(ctx, z); err != nil {
//	    return err
//	}
//
//	// Query zones
//	zones, _ := registry.ListZones(ctx, farmID)
//	z, _ := registry.GetZone(ctx, farmID, "zone-uuid")
//
// # Thread Safety
//
// The Registry is safe for concurrent use. All operations are protected by
// a read-write mutex. The Repository implementation must also be thread-safe.
//
// # Related Documentation
//
//   - migrations/20260815_120000_initial_schema.up.sql — Database schema
package zone
