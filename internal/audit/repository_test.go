package audit

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tillerlabs/farmcore/internal/control"
)

// setupTestDB creates an in-memory SQLite database with the audit_logs table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE audit_logs (
			id TEXT PRIMARY KEY,
			farm_id TEXT NOT NULL,
			zone_id TEXT,
			command TEXT NOT NULL,
			actor TEXT NOT NULL,
			duration INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		) STRICT;
		CREATE INDEX idx_audit_farm ON audit_logs(farm_id, created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestCreate(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	t.Run("generates ID and timestamp", func(t *testing.T) {
		entry := &Entry{
			FarmID:   "farm-001",
			ZoneID:   "zone-north-01",
			Command:  "start",
			Actor:    "grower@example.com",
			Duration: 30,
		}
		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if len(entry.ID) != len("aud-")+8 {
			t.Errorf("ID = %q, want aud- prefix with 8 chars", entry.ID)
		}
		if entry.CreatedAt.IsZero() {
			t.Error("CreatedAt not set")
		}
	})

	t.Run("farm-wide command has no zone", func(t *testing.T) {
		entry := &Entry{
			FarmID:  "farm-001",
			Command: "emergency_activate",
			Actor:   "system",
		}
		if err := repo.Create(ctx, entry); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		result, err := repo.List(ctx, Filter{FarmID: "farm-001", Command: "emergency_activate"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(result.Entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(result.Entries))
		}
		if result.Entries[0].ZoneID != "" {
			t.Errorf("ZoneID = %q, want empty", result.Entries[0].ZoneID)
		}
	})
}

func TestRecordCommand(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	err := repo.RecordCommand(ctx, control.CommandRecord{
		FarmID:   "farm-001",
		ZoneID:   "zone-a",
		Command:  "stop",
		Actor:    "system",
		Duration: 0,
	})
	if err != nil {
		t.Fatalf("RecordCommand() error = %v", err)
	}

	result, err := repo.List(ctx, Filter{FarmID: "farm-001"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(result.Entries))
	}
	got := result.Entries[0]
	if got.Command != "stop" || got.ZoneID != "zone-a" || got.Actor != "system" {
		t.Errorf("entry = %+v", got)
	}
}

// seedEntries inserts n entries for a farm with staggered timestamps.
func seedEntries(t *testing.T, repo *SQLiteRepository, farmID string, n int) {
	t.Helper()
	base := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		entry := &Entry{
			FarmID:    farmID,
			ZoneID:    fmt.Sprintf("zone-%02d", i%3),
			Command:   []string{"start", "stop", "pause"}[i%3],
			Actor:     "system",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(context.Background(), entry); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
}

func TestList(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	seedEntries(t, repo, "farm-001", 9)
	seedEntries(t, repo, "farm-002", 4)

	t.Run("scoped to farm", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{FarmID: "farm-001"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 9 {
			t.Errorf("Total = %d, want 9", result.Total)
		}
		for _, e := range result.Entries {
			if e.FarmID != "farm-001" {
				t.Errorf("entry %s leaked from farm %s", e.ID, e.FarmID)
			}
		}
	})

	t.Run("most recent first", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{FarmID: "farm-001"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		for i := 1; i < len(result.Entries); i++ {
			if result.Entries[i].CreatedAt.After(result.Entries[i-1].CreatedAt) {
				t.Errorf("entries out of order at index %d", i)
			}
		}
	})

	t.Run("filter by zone", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{FarmID: "farm-001", ZoneID: "zone-00"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 3 {
			t.Errorf("Total = %d, want 3", result.Total)
		}
	})

	t.Run("filter by command", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{FarmID: "farm-001", Command: "pause"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Total != 3 {
			t.Errorf("Total = %d, want 3", result.Total)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		page1, err := repo.List(ctx, Filter{FarmID: "farm-001", Limit: 4})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(page1.Entries) != 4 || page1.Total != 9 {
			t.Errorf("page1: %d entries, total %d", len(page1.Entries), page1.Total)
		}

		page3, err := repo.List(ctx, Filter{FarmID: "farm-001", Limit: 4, Offset: 8})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(page3.Entries) != 1 {
			t.Errorf("page3: %d entries, want 1", len(page3.Entries))
		}
	})

	t.Run("limit clamped", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{FarmID: "farm-001", Limit: 999})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Limit != 200 {
			t.Errorf("Limit = %d, want clamped to 200", result.Limit)
		}
	})

	t.Run("empty farm returns empty slice", func(t *testing.T) {
		result, err := repo.List(ctx, Filter{FarmID: "farm-empty"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if result.Entries == nil {
			t.Error("Entries is nil, want empty slice")
		}
		if result.Total != 0 {
			t.Errorf("Total = %d, want 0", result.Total)
		}
	})
}

func TestPrune(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	seedEntries(t, repo, "farm-001", 10)
	seedEntries(t, repo, "farm-002", 5)

	removed, err := repo.Prune(ctx, "farm-001", 4)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 6 {
		t.Errorf("removed = %d, want 6", removed)
	}

	kept, err := repo.List(ctx, Filter{FarmID: "farm-001"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if kept.Total != 4 {
		t.Errorf("farm-001 total = %d, want 4", kept.Total)
	}
	// Newest entries survive
	if got := kept.Entries[0].CreatedAt.Format("15:04"); got != "06:09" {
		t.Errorf("newest surviving entry at %s, want 06:09", got)
	}

	other, err := repo.List(ctx, Filter{FarmID: "farm-002"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if other.Total != 5 {
		t.Errorf("farm-002 total = %d, want 5 (prune leaked across farms)", other.Total)
	}

	if _, err := repo.Prune(ctx, "farm-001", 0); err == nil {
		t.Error("Prune(keep=0) error = nil, want error")
	}
}
