package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
site:
  id: "test-home"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 8080
scheduler:
  tick_interval: 10
  timer_grace_window: 10
  calendar_tolerance: 1
  min_timer_lead: 1
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "test-home" {
		t.Errorf("Site.ID = %q, want %q", cfg.Site.ID, "test-home")
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}

	if cfg.Scheduler.Interval() != 10*time.Second {
		t.Errorf("Scheduler.Interval() = %v, want 10s", cfg.Scheduler.Interval())
	}
	if cfg.Scheduler.Grace() != 10*time.Minute {
		t.Errorf("Scheduler.Grace() = %v, want 10m", cfg.Scheduler.Grace())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
site:
  id: ""
database:
  path: "/tmp/test.db"
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Error("Load() expected error for empty site.id, got nil")
	}
}

func TestValidate_SchedulerCadence(t *testing.T) {
	tests := []struct {
		name      string
		scheduler SchedulerConfig
		wantErr   bool
	}{
		{
			name:      "defaults are valid",
			scheduler: SchedulerConfig{TickInterval: 10, TimerGraceWindow: 10, CalendarTolerance: 1, MinTimerLead: 1},
			wantErr:   false,
		},
		{
			name:      "tick slower than tolerance window rejected",
			scheduler: SchedulerConfig{TickInterval: 120, TimerGraceWindow: 10, CalendarTolerance: 1, MinTimerLead: 1},
			wantErr:   true,
		},
		{
			name:      "zero tick interval rejected",
			scheduler: SchedulerConfig{TickInterval: 0, TimerGraceWindow: 10, CalendarTolerance: 1, MinTimerLead: 1},
			wantErr:   true,
		},
		{
			name:      "zero grace window rejected",
			scheduler: SchedulerConfig{TickInterval: 10, TimerGraceWindow: 0, CalendarTolerance: 1, MinTimerLead: 1},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Scheduler = tt.scheduler
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	content := `
site:
  id: "test-home"
database:
  path: "/tmp/test.db"
`
	t.Setenv("HEARTH_DATABASE_PATH", "/tmp/override.db")

	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %q, want env override %q", cfg.Database.Path, "/tmp/override.db")
	}
}
