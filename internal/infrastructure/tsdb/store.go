package tsdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DailyUsage is one day's aggregated water usage for a farm.
type DailyUsage struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Litres float64 `json:"litres"`
}

// Store appends and aggregates water usage samples.
type Store struct {
	db *sql.DB
}

// NewStore creates a usage sample store on an open SQLite connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordUsage appends one usage sample. Zero-litre samples are dropped
// silently so idle stop commands do not pollute the history.
func (s *Store) RecordUsage(ctx context.Context, farmID, zoneID string, litres float64, at time.Time) error {
	if farmID == "" || litres < 0 {
		return ErrInvalidSample
	}
	if litres == 0 {
		return nil
	}
	if at.IsZero() {
		at = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage_samples (farm_id, zone_id, litres, recorded_at)
		 VALUES (?, ?, ?, ?)`,
		farmID, zoneID, litres, at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting usage sample: %w", err)
	}
	return nil
}

// UsageHistory returns per-day usage totals for the last days days,
// most recent day first. Days with no samples are omitted.
func (s *Store) UsageHistory(ctx context.Context, farmID string, days int) ([]DailyUsage, error) {
	return s.history(ctx, farmID, "", days)
}

// ZoneUsageHistory returns per-day usage totals for one zone.
func (s *Store) ZoneUsageHistory(ctx context.Context, farmID, zoneID string, days int) ([]DailyUsage, error) {
	return s.history(ctx, farmID, zoneID, days)
}

func (s *Store) history(ctx context.Context, farmID, zoneID string, days int) ([]DailyUsage, error) {
	if days <= 0 {
		return nil, ErrInvalidRange
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)

	query := `
		SELECT date(recorded_at), SUM(litres)
		FROM usage_samples
		WHERE farm_id = ? AND recorded_at >= ?`
	args := []any{farmID, cutoff}
	if zoneID != "" {
		query += " AND zone_id = ?"
		args = append(args, zoneID)
	}
	query += " GROUP BY date(recorded_at) ORDER BY date(recorded_at) DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying usage history: %w", err)
	}
	defer rows.Close()

	var history []DailyUsage
	for rows.Next() {
		var day DailyUsage
		if err := rows.Scan(&day.Date, &day.Litres); err != nil {
			return nil, fmt.Errorf("scanning usage row: %w", err)
		}
		history = append(history, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating usage rows: %w", err)
	}

	if history == nil {
		history = []DailyUsage{}
	}
	return history, nil
}

// TotalUsage returns the summed usage for a farm over the last days days.
func (s *Store) TotalUsage(ctx context.Context, farmID string, days int) (float64, error) {
	if days <= 0 {
		return 0, ErrInvalidRange
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)

	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(litres) FROM usage_samples WHERE farm_id = ? AND recorded_at >= ?`,
		farmID, cutoff).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("querying usage total: %w", err)
	}
	return total.Float64, nil
}

// Prune deletes samples older than retainDays for all farms.
func (s *Store) Prune(ctx context.Context, retainDays int) (int, error) {
	if retainDays <= 0 {
		return 0, ErrInvalidRange
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retainDays).Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM usage_samples WHERE recorded_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning usage samples: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return int(affected), nil
}
