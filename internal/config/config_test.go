package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/username/grooming-agenda/internal/calendar"
	"github.com/username/grooming-agenda/pkg/dateutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ac, err := cfg.AgendaConfig()
	if err != nil {
		t.Fatalf("AgendaConfig() error = %v", err)
	}
	if ac.SlotInterval != 15*time.Minute {
		t.Errorf("SlotInterval = %v, want 15m", ac.SlotInterval)
	}
	if ac.GridStart != (dateutil.Clock{Hour: 8}) || ac.GridEnd != (dateutil.Clock{Hour: 22}) {
		t.Errorf("grid = %v-%v, want 08:00-22:00", ac.GridStart, ac.GridEnd)
	}
	if ac.WorkStart != (dateutil.Clock{Hour: 9, Minute: 30}) || ac.WorkEnd != (dateutil.Clock{Hour: 19}) {
		t.Errorf("working hours = %v-%v, want 09:30-19:00", ac.WorkStart, ac.WorkEnd)
	}
	if cfg.Calendar.Type != CalendarNone || cfg.Bookings.Source != BookingsFile {
		t.Errorf("sources = %q/%q, want none/file", cfg.Calendar.Type, cfg.Bookings.Source)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.GetShutdownTimeout() != 15*time.Second {
		t.Errorf("server = %+v, want defaults", cfg.Server)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_AgendaSection(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
agenda:
  slot_interval: 30m
  grid_start: "07:00"
  grid_end: "20:00"
  working_hours_start: "08:00"
  working_hours_end: "18:00"
  locale: es
  weekly_hours:
    friday:
      end: "15:00"
    sun:
      closed: true
calendar:
  type: file
  file: holidays.txt
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ac, err := cfg.AgendaConfig()
	if err != nil {
		t.Fatalf("AgendaConfig() error = %v", err)
	}
	if ac.SlotInterval != 30*time.Minute || ac.Locale != "es" {
		t.Errorf("interval/locale = %v/%q, want 30m/es", ac.SlotInterval, ac.Locale)
	}

	friday, ok := ac.WeeklyHours[time.Friday]
	if !ok {
		t.Fatal("friday hours missing")
	}
	if friday.Start != (dateutil.Clock{Hour: 8}) || friday.End != (dateutil.Clock{Hour: 15}) {
		t.Errorf("friday = %v-%v, want 08:00-15:00", friday.Start, friday.End)
	}
	if !ac.WeeklyHours[time.Sunday].Closed {
		t.Error("sunday should be closed")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AGENDA_DATABASE_URL", "postgres://agenda@localhost/agenda")

	cfg, err := Load(writeConfig(t, "bookings:\n  source: database\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.URL != "postgres://agenda@localhost/agenda" {
		t.Errorf("Database.URL = %q, want env value", cfg.Database.URL)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() expected error for missing explicit file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"unknown calendar type", "calendar:\n  type: moon\n", true},
		{"file calendar without file", "calendar:\n  type: file\n", true},
		{"database bookings without url", "bookings:\n  source: database\n", true},
		{"unknown bookings source", "bookings:\n  source: fax\n", true},
		{"statutory calendar", "calendar:\n  type: statutory\n", false},
		{"bad sample ratio", "telemetry:\n  sample_ratio: 2\n", true},
		{"daily sync time", "calendar:\n  sync_at: \"03:30\"\n", false},
		{"bad daily sync time", "calendar:\n  sync_at: \"3am\"\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAgendaConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		agenda AgendaConfig
	}{
		{"bad interval", AgendaConfig{SlotInterval: "soon"}},
		{"zero interval", AgendaConfig{SlotInterval: "0s"}},
		{"bad clock", AgendaConfig{GridStart: "8am"}},
		{"grid end before start", AgendaConfig{GridStart: "20:00", GridEnd: "08:00"}},
		{"unknown weekday", AgendaConfig{WeeklyHours: map[string]HoursConfig{"caturday": {Closed: true}}}},
		{"bad weekday clock", AgendaConfig{WeeklyHours: map[string]HoursConfig{"monday": {Start: "25:00"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Agenda: tt.agenda}
			if _, err := cfg.AgendaConfig(); !errors.Is(err, calendar.ErrInvalidArgument) {
				t.Errorf("AgendaConfig() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	c := CalendarConfig{CacheTTL: "garbage"}
	if got := c.GetCacheTTL(); got != 24*time.Hour {
		t.Errorf("GetCacheTTL() = %v, want 24h fallback", got)
	}
	r := RedisConfig{TTL: "90m"}
	if got := r.GetTTL(); got != 90*time.Minute {
		t.Errorf("GetTTL() = %v, want 90m", got)
	}
	d := DatabaseConfig{}
	if got := d.GetConnMaxLifetime(); got != 0 {
		t.Errorf("GetConnMaxLifetime() = %v, want 0", got)
	}
}
