package system

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Flags are the commanded farm-wide toggles. They change only through
// explicit system commands and persist across restarts so an emergency
// is never forgotten by a reboot.
type Flags struct {
	Enabled       bool      `json:"enabled"`
	AutoMode      bool      `json:"autoMode"`
	EmergencyMode bool      `json:"emergencyMode"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// defaultFlags are applied when a farm is first touched.
func defaultFlags() Flags {
	return Flags{
		Enabled:       true,
		AutoMode:      false,
		EmergencyMode: false,
		UpdatedAt:     time.Now().UTC(),
	}
}

// Store persists per-farm system flags in the system_state table,
// one row per farm, created on first touch with defaults.
type Store struct {
	db *sql.DB
}

// NewStore creates a flag store on an open SQLite connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetFlags returns the farm's flags, creating the row with defaults if
// the farm has never been touched.
func (s *Store) GetFlags(ctx context.Context, farmID string) (Flags, error) {
	query := `
		SELECT enabled, auto_mode, emergency_mode, updated_at
		FROM system_state
		WHERE farm_id = ?`

	var enabled, autoMode, emergencyMode int
	var updatedAt string
	err := s.db.QueryRowContext(ctx, query, farmID).
		Scan(&enabled, &autoMode, &emergencyMode, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		flags := defaultFlags()
		if err := s.insert(ctx, farmID, flags); err != nil {
			return Flags{}, err
		}
		return flags, nil
	}
	if err != nil {
		return Flags{}, fmt.Errorf("querying system state: %w", err)
	}

	flags := Flags{
		Enabled:       enabled != 0,
		AutoMode:      autoMode != 0,
		EmergencyMode: emergencyMode != 0,
	}
	flags.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return Flags{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return flags, nil
}

// SetEnabled flips the farm's enabled flag.
func (s *Store) SetEnabled(ctx context.Context, farmID string, on bool) error {
	return s.setFlag(ctx, farmID, "enabled", on)
}

// SetAutoMode flips the farm's automatic-scheduling flag.
func (s *Store) SetAutoMode(ctx context.Context, farmID string, on bool) error {
	return s.setFlag(ctx, farmID, "auto_mode", on)
}

// SetEmergencyMode flips the farm's emergency flag. Satisfies the
// control package's FlagStore interface.
func (s *Store) SetEmergencyMode(ctx context.Context, farmID string, on bool) error {
	return s.setFlag(ctx, farmID, "emergency_mode", on)
}

// setFlag updates one flag column, creating the row on first touch.
// The column name comes from a fixed caller-supplied set, never from input.
func (s *Store) setFlag(ctx context.Context, farmID, column string, on bool) error {
	// Ensure the row exists with defaults before updating
	if _, err := s.GetFlags(ctx, farmID); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	query := fmt.Sprintf(
		"UPDATE system_state SET %s = ?, updated_at = ? WHERE farm_id = ?", column)

	if _, err := s.db.ExecContext(ctx, query, boolToInt(on), now, farmID); err != nil {
		return fmt.Errorf("updating system state: %w", err)
	}
	return nil
}

// insert creates a farm's flag row.
func (s *Store) insert(ctx context.Context, farmID string, flags Flags) error {
	query := `
		INSERT INTO system_state (farm_id, enabled, auto_mode, emergency_mode, updated_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		farmID,
		boolToInt(flags.Enabled),
		boolToInt(flags.AutoMode),
		boolToInt(flags.EmergencyMode),
		flags.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting system state: %w", err)
	}
	return nil
}

// boolToInt converts a boolean to 0/1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
