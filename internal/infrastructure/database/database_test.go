package database

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func TestOpen_CreatesDatabase(t *testing.T) {
	db := openTestDB(t)

	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestMigrate_NoEmbeddedMigrations(t *testing.T) {
	db := openTestDB(t)

	// Without a registered migrations FS, Migrate is a no-op.
	if err := db.Migrate(context.Background()); err != nil {
		t.Errorf("Migrate() error = %v", err)
	}
}

func TestParseMigrationName(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		wantVersion string
		wantDesc    string
		wantErr     bool
	}{
		{
			name:        "valid filename",
			filename:    "20260301_120000_initial_schema.up.sql",
			wantVersion: "20260301_120000",
			wantDesc:    "initial_schema",
		},
		{
			name:        "multi word description",
			filename:    "20260302_090000_add_owner_index.up.sql",
			wantVersion: "20260302_090000",
			wantDesc:    "add_owner_index",
		},
		{
			name:     "missing description",
			filename: "20260301_120000.up.sql",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, desc, err := parseMigrationName(tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMigrationName(%q) error = %v, wantErr = %v", tt.filename, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if version != tt.wantVersion {
				t.Errorf("version = %q, want %q", version, tt.wantVersion)
			}
			if desc != tt.wantDesc {
				t.Errorf("desc = %q, want %q", desc, tt.wantDesc)
			}
		})
	}
}
