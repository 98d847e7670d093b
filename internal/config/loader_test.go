package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var keys = []string{
	"RESAMA_API_URL",
	"RESAMA_HTTP_TIMEOUT",
	"RESAMA_STORE_DSN",
	"RESAMA_DEMO_MODE",
	"RESAMA_HTTP_PORT",
	"RESAMA_LOG_LEVEL",
	"RESAMA_ROOMS_STALE_WINDOW",
	"RESAMA_RESERVATIONS_STALE_WINDOW",
	"RESAMA_PLANNING_WEEKS",
	"RESAMA_WATCH_SCHEDULE",
}

// clearEnv unsets every key for the duration of the test and points the
// .env lookup at a missing file.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
	t.Setenv("RESAMA_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.APIURL != "https://resama.onrender.com/api" {
			t.Fatalf("unexpected default API URL: %q", cfg.APIURL)
		}
		if !cfg.RemoteEnabled() {
			t.Fatalf("expected remote login to be enabled by default")
		}
		if cfg.HTTPTimeout != 10*time.Second {
			t.Fatalf("expected default timeout 10s, got %s", cfg.HTTPTimeout)
		}
		if cfg.StoreDSN != "resama.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.StoreDSN)
		}
		if cfg.DemoMode {
			t.Fatalf("expected demo mode to be disabled by default")
		}
		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.LogLevel != "info" {
			t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
		}
		if cfg.RoomsStaleWindow != 10*time.Minute || cfg.ReservationsStaleWindow != time.Minute {
			t.Fatalf("unexpected stale windows: rooms=%s reservations=%s", cfg.RoomsStaleWindow, cfg.ReservationsStaleWindow)
		}
		if cfg.PlanningWeeks != 12 {
			t.Fatalf("expected 12 planning weeks, got %d", cfg.PlanningWeeks)
		}
		if cfg.WatchSchedule != "@every 1m" {
			t.Fatalf("unexpected watch schedule: %q", cfg.WatchSchedule)
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RESAMA_API_URL", "http://localhost:9000/api/")
		t.Setenv("RESAMA_HTTP_TIMEOUT", "3s")
		t.Setenv("RESAMA_DEMO_MODE", "true")
		t.Setenv("RESAMA_HTTP_PORT", "9090")
		t.Setenv("RESAMA_LOG_LEVEL", "DEBUG")
		t.Setenv("RESAMA_RESERVATIONS_STALE_WINDOW", "30s")
		t.Setenv("RESAMA_PLANNING_WEEKS", "4")
		t.Setenv("RESAMA_WATCH_SCHEDULE", "*/5 * * * *")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.APIURL != "http://localhost:9000/api" {
			t.Fatalf("expected trailing slash to be trimmed, got %q", cfg.APIURL)
		}
		if cfg.HTTPTimeout != 3*time.Second {
			t.Fatalf("expected timeout 3s, got %s", cfg.HTTPTimeout)
		}
		if !cfg.DemoMode {
			t.Fatalf("expected demo mode to be enabled")
		}
		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.LogLevel != "debug" {
			t.Fatalf("expected log level debug, got %q", cfg.LogLevel)
		}
		if cfg.ReservationsStaleWindow != 30*time.Second {
			t.Fatalf("expected reservations stale window 30s, got %s", cfg.ReservationsStaleWindow)
		}
		if cfg.PlanningWeeks != 4 {
			t.Fatalf("expected 4 planning weeks, got %d", cfg.PlanningWeeks)
		}
		if cfg.WatchSchedule != "*/5 * * * *" {
			t.Fatalf("unexpected watch schedule: %q", cfg.WatchSchedule)
		}
	})

	t.Run("reports every invalid value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RESAMA_HTTP_TIMEOUT", "soon")
		t.Setenv("RESAMA_HTTP_PORT", "-1")
		t.Setenv("RESAMA_WATCH_SCHEDULE", "never")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "variables d'environnement invalides: RESAMA_HTTP_TIMEOUT, RESAMA_HTTP_PORT, RESAMA_WATCH_SCHEDULE"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("reads the env file without overriding the environment", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "resama.env")
		content := "RESAMA_STORE_DSN=/tmp/from-file.db\nRESAMA_HTTP_PORT=7000\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv("RESAMA_ENV_FILE", path)
		t.Setenv("RESAMA_HTTP_PORT", "7100")
		t.Cleanup(func() { _ = os.Unsetenv("RESAMA_STORE_DSN") })

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.StoreDSN != "/tmp/from-file.db" {
			t.Fatalf("expected DSN from env file, got %q", cfg.StoreDSN)
		}
		if cfg.HTTPPort != 7100 {
			t.Fatalf("expected environment to win over env file, got %d", cfg.HTTPPort)
		}
	})

	t.Run("empty API URL disables remote login", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RESAMA_API_URL", " ")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.RemoteEnabled() {
			t.Fatalf("expected remote login to be disabled")
		}
	})
}
