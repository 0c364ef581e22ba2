package zone

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for zone persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
//
// All lookups are farm-scoped: a zone belonging to another farm behaves
// exactly like a zone that does not exist.
type Repository interface {
	// GetByID retrieves a zone by farm and zone ID.
	// Returns ErrZoneNotFound if the zone does not exist in the farm.
	GetByID(ctx context.Context, farmID, zoneID string) (*IrrigationZone, error)

	// List retrieves all zones belonging to a farm.
	List(ctx context.Context, farmID string) ([]IrrigationZone, error)

	// ListByStatus retrieves all zones of a farm with a specific status.
	ListByStatus(ctx context.Context, farmID string, status Status) ([]IrrigationZone, error)

	// Create inserts a new zone.
	// Returns ErrZoneExists if a zone with the same ID already exists.
	Create(ctx context.Context, z *IrrigationZone) error

	// Update modifies an existing zone.
	// Returns ErrZoneNotFound if the zone does not exist in the farm.
	Update(ctx context.Context, z *IrrigationZone) error

	// Delete removes a zone and its schedules.
	// Returns ErrZoneNotFound if the zone does not exist in the farm.
	Delete(ctx context.Context, farmID, zoneID string) error

	// TransitionAll flips every zone of the farm to the given status and
	// valve position in a single transaction. Returns the number of zones
	// affected. This is the commit point for bulk and emergency commands.
	TransitionAll(ctx context.Context, farmID string, status Status, valve ValveStatus) (int, error)
}

// zoneColumns is the column list shared by all SELECT statements.
const zoneColumns = `id, farm_id, name, area, crop_type, latitude, longitude,
	status, valve_status, soil_moisture, temperature, humidity,
	sensor_battery, pressure, flow_rate, last_watered, next_scheduled,
	schedule, water_usage, efficiency, recommendations, created_at, updated_at`

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a zone by farm and zone ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, farmID, zoneID string) (*IrrigationZone, error) {
	query := `
		SELECT ` + zoneColumns + `
		FROM zones
		WHERE id = ? AND farm_id = ?`

	row := r.db.QueryRowContext(ctx, query, zoneID, farmID)
	z, err := scanZoneRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrZoneNotFound
		}
		return nil, fmt.Errorf("querying zone by id: %w", err)
	}
	return z, nil
}

// List retrieves all zones belonging to a farm.
func (r *SQLiteRepository) List(ctx context.Context, farmID string) ([]IrrigationZone, error) {
	query := `
		SELECT ` + zoneColumns + `
		FROM zones
		WHERE farm_id = ?
		ORDER BY name`

	return r.queryZones(ctx, query, farmID)
}

// ListByStatus retrieves all zones of a farm with a specific status.
func (r *SQLiteRepository) ListByStatus(ctx context.Context, farmID string, status Status) ([]IrrigationZone, error) {
	query := `
		SELECT ` + zoneColumns + `
		FROM zones
		WHERE farm_id = ? AND status = ?
		ORDER BY name`

	return r.queryZones(ctx, query, farmID, string(status))
}

// Create inserts a new zone.
func (r *SQLiteRepository) Create(ctx context.Context, z *IrrigationZone) error {
	scheduleJSON, err := json.Marshal(z.Schedule)
	if err != nil {
		return fmt.Errorf("marshalling schedule: %w", err)
	}

	recsJSON, err := json.Marshal(z.Recommendations)
	if err != nil {
		return fmt.Errorf("marshalling recommendations: %w", err)
	}

	// Set timestamps if not set
	now := time.Now().UTC()
	if z.CreatedAt.IsZero() {
		z.CreatedAt = now
	}
	z.UpdatedAt = now

	query := `
		INSERT INTO zones (
			id, farm_id, name, area, crop_type, latitude, longitude,
			status, valve_status, soil_moisture, temperature, humidity,
			sensor_battery, pressure, flow_rate, last_watered, next_scheduled,
			schedule, water_usage, efficiency, recommendations, created_at, updated_at
		) VALUES (
			?, ?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?, ?, ?, ?
		)`

	_, err = r.db.ExecContext(ctx, query,
		z.ID,
		z.FarmID,
		z.Name,
		z.Area,
		z.CropType,
		z.Coordinates.Lat,
		z.Coordinates.Lng,
		string(z.Status),
		string(z.ValveStatus),
		z.SoilMoisture,
		z.Temperature,
		z.Humidity,
		z.SensorBattery,
		z.Pressure,
		z.FlowRate,
		nullableTime(z.LastWatered),
		nullableTime(z.NextScheduled),
		string(scheduleJSON),
		z.WaterUsage,
		z.Efficiency,
		string(recsJSON),
		z.CreatedAt.Format(time.RFC3339),
		z.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		// Check for unique constraint violation
		if isUniqueConstraintError(err) {
			return ErrZoneExists
		}
		return fmt.Errorf("inserting zone: %w", err)
	}

	return nil
}

// Update modifies an existing zone.
func (r *SQLiteRepository) Update(ctx context.Context, z *IrrigationZone) error {
	scheduleJSON, err := json.Marshal(z.Schedule)
	if err != nil {
		return fmt.Errorf("marshalling schedule: %w", err)
	}

	recsJSON, err := json.Marshal(z.Recommendations)
	if err != nil {
		return fmt.Errorf("marshalling recommendations: %w", err)
	}

	z.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE zones SET
			name = ?, area = ?, crop_type = ?, latitude = ?, longitude = ?,
			status = ?, valve_status = ?, soil_moisture = ?, temperature = ?,
			humidity = ?, sensor_battery = ?, pressure = ?, flow_rate = ?,
			last_watered = ?, next_scheduled = ?, schedule = ?,
			water_usage = ?, efficiency = ?, recommendations = ?, updated_at = ?
		WHERE id = ? AND farm_id = ?`

	result, err := r.db.ExecContext(ctx, query,
		z.Name,
		z.Area,
		z.CropType,
		z.Coordinates.Lat,
		z.Coordinates.Lng,
		string(z.Status),
		string(z.ValveStatus),
		z.SoilMoisture,
		z.Temperature,
		z.Humidity,
		z.SensorBattery,
		z.Pressure,
		z.FlowRate,
		nullableTime(z.LastWatered),
		nullableTime(z.NextScheduled),
		string(scheduleJSON),
		z.WaterUsage,
		z.Efficiency,
		string(recsJSON),
		z.UpdatedAt.Format(time.RFC3339),
		z.ID,
		z.FarmID,
	)
	if err != nil {
		return fmt.Errorf("updating zone: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrZoneNotFound
	}

	return nil
}

// Delete removes a zone. Schedules live inside the zone record, so they
// go with it.
func (r *SQLiteRepository) Delete(ctx context.Context, farmID, zoneID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM zones WHERE id = ? AND farm_id = ?", zoneID, farmID)
	if err != nil {
		return fmt.Errorf("deleting zone: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrZoneNotFound
	}

	return nil
}

// TransitionAll flips every zone of the farm in one transaction.
func (r *SQLiteRepository) TransitionAll(ctx context.Context, farmID string, status Status, valve ValveStatus) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	now := time.Now().UTC().Format(time.RFC3339)
	result, err := tx.ExecContext(ctx, `
		UPDATE zones
		SET status = ?, valve_status = ?, updated_at = ?
		WHERE farm_id = ?`,
		string(status), string(valve), now, farmID)
	if err != nil {
		return 0, fmt.Errorf("transitioning zones: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transition: %w", err)
	}

	return int(rowsAffected), nil
}

// queryZones executes a query and returns a slice of zones.
func (r *SQLiteRepository) queryZones(ctx context.Context, query string, args ...any) ([]IrrigationZone, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying zones: %w", err)
	}
	defer rows.Close()

	var zones []IrrigationZone
	for rows.Next() {
		z, err := scanZoneRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning zone: %w", err)
		}
		zones = append(zones, *z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating zones: %w", err)
	}

	return zones, nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanZoneRow scans a row or rows result into an IrrigationZone.
func scanZoneRow(scanner rowScanner) (*IrrigationZone, error) {
	var z IrrigationZone
	var status, valveStatus string
	var lastWatered, nextScheduled sql.NullString
	var scheduleJSON, recsJSON string
	var createdAt, updatedAt string

	err := scanner.Scan(
		&z.ID,
		&z.FarmID,
		&z.Name,
		&z.Area,
		&z.CropType,
		&z.Coordinates.Lat,
		&z.Coordinates.Lng,
		&status,
		&valveStatus,
		&z.SoilMoisture,
		&z.Temperature,
		&z.Humidity,
		&z.SensorBattery,
		&z.Pressure,
		&z.FlowRate,
		&lastWatered,
		&nextScheduled,
		&scheduleJSON,
		&z.WaterUsage,
		&z.Efficiency,
		&recsJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	z.Status = Status(status)
	z.ValveStatus = ValveStatus(valveStatus)

	// Parse timestamps
	if lastWatered.Valid {
		t, err := time.Parse(time.RFC3339, lastWatered.String)
		if err == nil {
			z.LastWatered = &t
		}
	}
	if nextScheduled.Valid {
		t, err := time.Parse(time.RFC3339, nextScheduled.String)
		if err == nil {
			z.NextScheduled = &t
		}
	}

	var parseErr error
	z.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	z.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	// Unmarshal JSON fields
	if err := json.Unmarshal([]byte(scheduleJSON), &z.Schedule); err != nil {
		return nil, fmt.Errorf("unmarshalling schedule: %w", err)
	}
	if err := json.Unmarshal([]byte(recsJSON), &z.Recommendations); err != nil {
		return nil, fmt.Errorf("unmarshalling recommendations: %w", err)
	}

	return &z, nil
}

// nullableTime returns a sql.NullString for optional time pointers (as RFC3339 strings).
func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
