// Package audit provides access to the audit_logs table recording every
// physical-state-changing irrigation command.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tillerlabs/farmcore/internal/control"
)

// Entry represents a single command audit trail record.
type Entry struct {
	ID        string    `json:"id"`
	FarmID    string    `json:"farmId"`
	ZoneID    string    `json:"zoneId,omitempty"` // empty for farm-wide commands
	Command   string    `json:"command"`          // start, stop, pause, stop_all, emergency_activate, ...
	Actor     string    `json:"actor"`
	Duration  int       `json:"duration,omitempty"` // minutes, start commands only
	CreatedAt time.Time `json:"createdAt"`
}

// Filter controls which audit entries to return.
type Filter struct {
	FarmID  string // required: entries are always farm-scoped
	ZoneID  string // optional: filter by zone
	Command string // optional: filter by command
	Limit   int    // default 50, max 200
	Offset  int    // pagination offset
}

// ListResult contains the paginated audit results.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// Repository defines the interface for audit operations.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// SQLiteRepository stores audit entries in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new audit repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new audit entry. The ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = "aud-" + uuid.NewString()[:8]
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, farm_id, zone_id, command, actor, duration, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.FarmID,
		nullableString(entry.ZoneID),
		entry.Command, entry.Actor, entry.Duration,
		entry.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	return nil
}

// RecordCommand satisfies the control package's Recorder interface.
func (r *SQLiteRepository) RecordCommand(ctx context.Context, rec control.CommandRecord) error {
	return r.Create(ctx, &Entry{
		FarmID:   rec.FarmID,
		ZoneID:   rec.ZoneID,
		Command:  rec.Command,
		Actor:    rec.Actor,
		Duration: rec.Duration,
	})
}

// nullableString returns nil for empty strings, or the string otherwise.
// Used for nullable TEXT columns in SQLite.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// List returns audit entries matching the filter, ordered by most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	// Clamp limit.
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 { //nolint:mnd // max page size for audit queries
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	// Build WHERE clause dynamically.
	conditions := []string{"farm_id = ?"}
	args := []any{filter.FarmID}

	if filter.ZoneID != "" {
		conditions = append(conditions, "zone_id = ?")
		args = append(args, filter.ZoneID)
	}
	if filter.Command != "" {
		conditions = append(conditions, "command = ?")
		args = append(args, filter.Command)
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Get total count.
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_logs %s", where) //nolint:gosec // WHERE built from parameterised conditions, not user input
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting audit entries: %w", err)
	}

	// Get paginated results.
	query := fmt.Sprintf( //nolint:gosec // WHERE built from parameterised conditions, not user input
		"SELECT id, farm_id, zone_id, command, actor, duration, created_at FROM audit_logs %s ORDER BY created_at DESC LIMIT ? OFFSET ?",
		where,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var zoneID sql.NullString
		var createdAt string

		if err := rows.Scan(&entry.ID, &entry.FarmID, &zoneID,
			&entry.Command, &entry.Actor, &entry.Duration, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		if zoneID.Valid {
			entry.ZoneID = zoneID.String
		}

		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing audit timestamp %q: %w", createdAt, err)
		}
		entry.CreatedAt = t

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}

	if entries == nil {
		entries = []Entry{}
	}

	return &ListResult{
		Entries: entries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

// Prune deletes the oldest entries beyond keep for a farm.
// Called periodically so the table does not grow without bound.
func (r *SQLiteRepository) Prune(ctx context.Context, farmID string, keep int) (int, error) {
	if keep <= 0 {
		return 0, fmt.Errorf("keep must be positive")
	}

	result, err := r.db.ExecContext(ctx, `
		DELETE FROM audit_logs
		WHERE farm_id = ?
		  AND id NOT IN (
			SELECT id FROM audit_logs
			WHERE farm_id = ?
			ORDER BY created_at DESC
			LIMIT ?
		  )`,
		farmID, farmID, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning audit entries: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return int(affected), nil
}
