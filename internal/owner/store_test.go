package owner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mvickery/hearth-core/internal/alert"
	"github.com/mvickery/hearth-core/internal/device"
	"github.com/mvickery/hearth-core/internal/infrastructure/database"
	"github.com/mvickery/hearth-core/internal/scene"

	_ "github.com/mvickery/hearth-core/migrations" // register embedded schema
)

// openTestStore opens a migrated SQLite database in a temp dir.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewSQLiteStore(db.DB)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	rec, err := NewRecord("alice", now)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	key := device.NewKey("light", "study")
	d, err := device.New(key, 40, now)
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}
	d.Apply(device.ActionOn, now)
	if err := rec.AddDevice(d); err != nil {
		t.Fatalf("AddDevice() error = %v", err)
	}
	rec.Alerts = append(rec.Alerts, alert.NewEnergyBased("budget", key, 5, alert.CompGT, "over", now))
	if err := scene.AddAction(rec.SceneOverrides, "movie", scene.Action{
		Device: device.NewKey("fan", "lounge"), Action: device.ActionOn,
	}); err != nil {
		t.Fatalf("AddAction() error = %v", err)
	}

	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Find(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.Name != "alice" {
		t.Errorf("Name = %q, want alice", got.Name)
	}
	loaded := got.Device(key)
	if loaded == nil {
		t.Fatal("device missing after round trip")
	}
	if !loaded.IsOn || loaded.LastOnAt == nil || !loaded.LastOnAt.Equal(now) {
		t.Errorf("device state = %+v, want on since %v", loaded, now)
	}
	if len(got.Alerts) != 1 || got.Alerts[0].Comp != alert.CompGT {
		t.Errorf("alerts = %+v, want the energy alert back", got.Alerts)
	}
	if _, ok := got.SceneOverrides["MOVIE"]; !ok {
		t.Error("scene override missing after round trip")
	}
}

func TestSQLiteStore_SaveIsUpsert(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	rec, err := NewRecord("bob", now)
	if err != nil {
		t.Fatalf("NewRecord() error = %v", err)
	}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	rec.Name = "robert"
	rec.UpdatedAt = now.Add(time.Minute)
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 || records[0].Name != "robert" {
		t.Errorf("List() = %+v, want one updated record", records)
	}
}

func TestSQLiteStore_FindAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.Find(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(unknown) error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_ListOrdersByName(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for _, name := range []string{"zoe", "adam", "mia"} {
		rec, err := NewRecord(name, now)
		if err != nil {
			t.Fatalf("NewRecord(%s) error = %v", name, err)
		}
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("List() returned %d records, want 3", len(records))
	}
	for i, want := range []string{"adam", "mia", "zoe"} {
		if records[i].Name != want {
			t.Errorf("records[%d].Name = %q, want %q", i, records[i].Name, want)
		}
	}
}
