package tsdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the usage_samples table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE usage_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			farm_id TEXT NOT NULL,
			zone_id TEXT NOT NULL,
			litres REAL NOT NULL,
			recorded_at TEXT NOT NULL
		) STRICT;
		CREATE INDEX idx_usage_farm_time ON usage_samples(farm_id, recorded_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// record inserts a sample at a given offset from now.
func record(t *testing.T, store *Store, farmID, zoneID string, litres float64, ago time.Duration) {
	t.Helper()
	if err := store.RecordUsage(context.Background(), farmID, zoneID, litres, time.Now().UTC().Add(-ago)); err != nil {
		t.Fatalf("RecordUsage() error = %v", err)
	}
}

func TestRecordUsage(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	t.Run("valid sample", func(t *testing.T) {
		if err := store.RecordUsage(ctx, "farm-001", "zone-a", 500, time.Now()); err != nil {
			t.Fatalf("RecordUsage() error = %v", err)
		}
	})

	t.Run("zero litres dropped silently", func(t *testing.T) {
		if err := store.RecordUsage(ctx, "farm-001", "zone-a", 0, time.Now()); err != nil {
			t.Fatalf("RecordUsage() error = %v", err)
		}
		total, err := store.TotalUsage(ctx, "farm-001", 1)
		if err != nil {
			t.Fatalf("TotalUsage() error = %v", err)
		}
		if total != 500 {
			t.Errorf("total = %v, want 500 (zero sample should not be stored)", total)
		}
	})

	t.Run("invalid samples rejected", func(t *testing.T) {
		if err := store.RecordUsage(ctx, "", "zone-a", 100, time.Now()); !errors.Is(err, ErrInvalidSample) {
			t.Errorf("missing farm: error = %v, want ErrInvalidSample", err)
		}
		if err := store.RecordUsage(ctx, "farm-001", "zone-a", -5, time.Now()); !errors.Is(err, ErrInvalidSample) {
			t.Errorf("negative litres: error = %v, want ErrInvalidSample", err)
		}
	})
}

func TestUsageHistory(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	record(t, store, "farm-001", "zone-a", 300, 1*time.Hour)
	record(t, store, "farm-001", "zone-b", 200, 2*time.Hour)
	record(t, store, "farm-001", "zone-a", 450, 26*time.Hour)
	record(t, store, "farm-002", "zone-x", 999, 1*time.Hour)

	t.Run("aggregates by day, scoped to farm", func(t *testing.T) {
		history, err := store.UsageHistory(ctx, "farm-001", 7)
		if err != nil {
			t.Fatalf("UsageHistory() error = %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("got %d days, want 2", len(history))
		}
		// Most recent day first: today's two samples summed.
		if history[0].Litres != 500 {
			t.Errorf("today = %v litres, want 500", history[0].Litres)
		}
		if history[1].Litres != 450 {
			t.Errorf("yesterday = %v litres, want 450", history[1].Litres)
		}
	})

	t.Run("range excludes older samples", func(t *testing.T) {
		history, err := store.UsageHistory(ctx, "farm-001", 1)
		if err != nil {
			t.Fatalf("UsageHistory() error = %v", err)
		}
		var total float64
		for _, day := range history {
			total += day.Litres
		}
		if total != 500 {
			t.Errorf("1-day total = %v, want 500", total)
		}
	})

	t.Run("zone filter", func(t *testing.T) {
		history, err := store.ZoneUsageHistory(ctx, "farm-001", "zone-b", 7)
		if err != nil {
			t.Fatalf("ZoneUsageHistory() error = %v", err)
		}
		if len(history) != 1 || history[0].Litres != 200 {
			t.Errorf("history = %+v, want single 200L day", history)
		}
	})

	t.Run("empty farm returns empty slice", func(t *testing.T) {
		history, err := store.UsageHistory(ctx, "farm-empty", 7)
		if err != nil {
			t.Fatalf("UsageHistory() error = %v", err)
		}
		if history == nil {
			t.Error("history is nil, want empty slice")
		}
	})

	t.Run("invalid range", func(t *testing.T) {
		if _, err := store.UsageHistory(ctx, "farm-001", 0); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("error = %v, want ErrInvalidRange", err)
		}
	})
}

func TestTotalUsage(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	total, err := store.TotalUsage(ctx, "farm-001", 7)
	if err != nil {
		t.Fatalf("TotalUsage() error = %v", err)
	}
	if total != 0 {
		t.Errorf("empty farm total = %v, want 0", total)
	}

	record(t, store, "farm-001", "zone-a", 100, time.Hour)
	record(t, store, "farm-001", "zone-b", 250, 2*time.Hour)

	total, err = store.TotalUsage(ctx, "farm-001", 7)
	if err != nil {
		t.Fatalf("TotalUsage() error = %v", err)
	}
	if total != 350 {
		t.Errorf("total = %v, want 350", total)
	}
}

func TestPrune(t *testing.T) {
	store := NewStore(setupTestDB(t))
	ctx := context.Background()

	record(t, store, "farm-001", "zone-a", 100, 1*time.Hour)
	record(t, store, "farm-001", "zone-a", 200, 40*24*time.Hour)
	record(t, store, "farm-002", "zone-x", 300, 50*24*time.Hour)

	removed, err := store.Prune(ctx, 30)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	total, err := store.TotalUsage(ctx, "farm-001", 60)
	if err != nil {
		t.Fatalf("TotalUsage() error = %v", err)
	}
	if total != 100 {
		t.Errorf("surviving total = %v, want 100", total)
	}

	if _, err := store.Prune(ctx, 0); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Prune(0) error = %v, want ErrInvalidRange", err)
	}
}
