package zone

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
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

// Registry provides zone management with caching and thread safety.
// It wraps a Repository and adds an in-memory cache for fast lookups.
//
// The cache is populated per farm on first access and kept in sync by
// cache-invalidating CRUD operations. All returned records are deep
// copies; callers can safely modify them.
//
// All public methods are thread-safe.
type Registry struct {
	repo        Repository
	cache       map[string]*IrrigationZone // Cached zones by ID
	loadedFarms map[string]struct{}        // Farms whose full zone set is cached
	cacheMu     sync.RWMutex               // Protects cache and loadedFarms
	logger      Logger
}

// NewRegistry creates a new zone registry.
// The repository is used for persistence; the registry adds caching.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:        repo,
		cache:       make(map[string]*IrrigationZone),
		loadedFarms: make(map[string]struct{}),
		logger:      noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshFarm reloads a farm's zones from the repository into the cache.
// Called on startup for the default farm and after bulk transitions.
func (r *Registry) RefreshFarm(ctx context.Context, farmID string) error {
	zones, err := r.repo.List(ctx, farmID)
	if err != nil {
		return fmt.Errorf("loading zones: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	// Drop stale entries for this farm, then rebuild with deep copies
	for id, z := range r.cache {
		if z.FarmID == farmID {
			delete(r.cache, id)
		}
	}
	for i := range zones {
		z := zones[i]
		r.cache[z.ID] = z.DeepCopy()
	}
	r.loadedFarms[farmID] = struct{}{}

	r.logger.Info("zone cache refreshed", "farm_id", farmID, "count", len(zones))
	return nil
}

// GetZone retrieves a zone by farm and zone ID.
// Returns ErrZoneNotFound if the zone does not exist in the farm.
func (r *Registry) GetZone(ctx context.Context, farmID, zoneID string) (*IrrigationZone, error) {
	// Try cache first
	r.cacheMu.RLock()
	cached, ok := r.cache[zoneID]
	r.cacheMu.RUnlock()

	if ok {
		// Cross-farm lookups must behave like a missing zone
		if cached.FarmID != farmID {
			return nil, ErrZoneNotFound
		}
		return cached.DeepCopy(), nil
	}

	// Fall back to repository (might be a new zone not yet cached)
	z, err := r.repo.GetByID(ctx, farmID, zoneID)
	if err != nil {
		return nil, err
	}

	// Cache for future lookups (store a deep copy)
	r.cacheMu.Lock()
	r.cache[z.ID] = z.DeepCopy()
	r.cacheMu.Unlock()

	return z, nil
}

// ListZones retrieves all zones belonging to a farm.
func (r *Registry) ListZones(ctx context.Context, farmID string) ([]IrrigationZone, error) {
	r.cacheMu.RLock()
	_, loaded := r.loadedFarms[farmID]
	if loaded {
		zones := make([]IrrigationZone, 0)
		for _, z := range r.cache {
			if z.FarmID == farmID {
				zones = append(zones, *z.DeepCopy())
			}
		}
		r.cacheMu.RUnlock()
		return zones, nil
	}
	r.cacheMu.RUnlock()

	// Load the farm into the cache, then serve from it
	if err := r.RefreshFarm(ctx, farmID); err != nil {
		return nil, err
	}

	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	zones := make([]IrrigationZone, 0)
	for _, z := range r.cache {
		if z.FarmID == farmID {
			zones = append(zones, *z.DeepCopy())
		}
	}
	return zones, nil
}

// ListZonesByStatus retrieves all zones of a farm with a specific status.
func (r *Registry) ListZonesByStatus(ctx context.Context, farmID string, status Status) ([]IrrigationZone, error) {
	zones, err := r.ListZones(ctx, farmID)
	if err != nil {
		return nil, err
	}

	filtered := zones[:0]
	for _, z := range zones {
		if z.Status == status {
			filtered = append(filtered, z)
		}
	}
	return filtered, nil
}

// CreateZone creates a new zone.
// It generates an ID if needed, applies lifecycle defaults, validates,
// and persists.
func (r *Registry) CreateZone(ctx context.Context, z *IrrigationZone) error {
	// Generate ID if not provided
	if z.ID == "" {
		z.ID = GenerateID()
	}

	// Schedule entries need IDs too
	for i := range z.Schedule {
		if z.Schedule[i].ID == "" {
			z.Schedule[i].ID = GenerateID()
		}
	}

	z.ApplyDefaults()

	// Validate
	if err := ValidateZone(z); err != nil {
		return err
	}

	// Persist
	if err := r.repo.Create(ctx, z); err != nil {
		return err
	}

	// Update cache (store a deep copy to prevent external modification)
	r.cacheMu.Lock()
	r.cache[z.ID] = z.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Info("zone created", "id", z.ID, "farm_id", z.FarmID, "name", z.Name)
	return nil
}

// UpdateZone updates an existing zone.
// It validates the zone and persists the changes.
func (r *Registry) UpdateZone(ctx context.Context, z *IrrigationZone) error {
	// Validate
	if err := ValidateZone(z); err != nil {
		return err
	}

	// Persist
	if err := r.repo.Update(ctx, z); err != nil {
		return err
	}

	// Update cache (store a deep copy to prevent external modification)
	r.cacheMu.Lock()
	r.cache[z.ID] = z.DeepCopy()
	r.cacheMu.Unlock()

	r.logger.Info("zone updated", "id", z.ID, "farm_id", z.FarmID, "name", z.Name)
	return nil
}

// DeleteZone removes a zone and its schedules.
func (r *Registry) DeleteZone(ctx context.Context, farmID, zoneID string) error {
	if err := r.repo.Delete(ctx, farmID, zoneID); err != nil {
		return err
	}

	// Update cache
	r.cacheMu.Lock()
	delete(r.cache, zoneID)
	r.cacheMu.Unlock()

	r.logger.Info("zone deleted", "id", zoneID, "farm_id", farmID)
	return nil
}

// TransitionAll flips every zone of the farm to the given status and valve
// position in one store transaction, then brings the cache in line.
// Returns the number of zones affected.
func (r *Registry) TransitionAll(ctx context.Context, farmID string, status Status, valve ValveStatus) (int, error) {
	affected, err := r.repo.TransitionAll(ctx, farmID, status, valve)
	if err != nil {
		return 0, err
	}

	// Apply the same sweep to cached entries (atomic replacement per zone)
	now := time.Now().UTC()
	r.cacheMu.Lock()
	for id, z := range r.cache {
		if z.FarmID != farmID {
			continue
		}
		updated := z.DeepCopy()
		updated.Status = status
		updated.ValveStatus = valve
		updated.UpdatedAt = now
		r.cache[id] = updated
	}
	r.cacheMu.Unlock()

	r.logger.Info("zones transitioned",
		"farm_id", farmID, "status", status, "valve", valve, "count", affected)
	return affected, nil
}

// ZoneCount returns the number of cached zones for a farm.
func (r *Registry) ZoneCount(farmID string) int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	count := 0
	for _, z := range r.cache {
		if z.FarmID == farmID {
			count++
		}
	}
	return count
}
