package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const envPrefix = "RESAMA"

// Config captures environment driven configuration values for the dashboard client.
type Config struct {
	APIURL                  string
	HTTPTimeout             time.Duration
	StoreDSN                string
	DemoMode                bool
	HTTPPort                int
	LogLevel                string
	RoomsStaleWindow        time.Duration
	ReservationsStaleWindow time.Duration
	PlanningWeeks           int
	WatchSchedule           string
}

// RemoteEnabled reports whether a backend URL is configured.
func (c Config) RemoteEnabled() bool {
	return c.APIURL != ""
}

func defaults(v *viper.Viper) {
	v.SetDefault("api_url", "https://resama.onrender.com/api")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("store_dsn", "resama.db")
	v.SetDefault("demo_mode", "false")
	v.SetDefault("http_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("rooms_stale_window", "10m")
	v.SetDefault("reservations_stale_window", "1m")
	v.SetDefault("planning_weeks", "12")
	v.SetDefault("watch_schedule", "@every 1m")
}

// Load parses configuration values from the process environment, after
// loading the .env file named by RESAMA_ENV_FILE (default ".env") when it
// exists. Variables already set in the environment take precedence.
//
// Every invalid value is reported in a single error.
func Load() (Config, error) {
	envFile := strings.TrimSpace(os.Getenv(envPrefix + "_ENV_FILE"))
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("lecture de %s impossible: %w", envFile, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("lecture de %s impossible: %w", envFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	defaults(v)

	var cfg Config
	invalid := make([]string, 0, 2)
	get := func(key string) string { return strings.TrimSpace(v.GetString(key)) }
	reject := func(key string) { invalid = append(invalid, envPrefix+"_"+strings.ToUpper(key)) }

	cfg.APIURL = strings.TrimRight(get("api_url"), "/")
	if cfg.APIURL != "" {
		if u, err := url.Parse(cfg.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
			reject("api_url")
		}
	}

	cfg.StoreDSN = get("store_dsn")
	if cfg.StoreDSN == "" {
		reject("store_dsn")
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"http_timeout", &cfg.HTTPTimeout},
		{"rooms_stale_window", &cfg.RoomsStaleWindow},
		{"reservations_stale_window", &cfg.ReservationsStaleWindow},
	}
	for _, d := range durations {
		value, err := time.ParseDuration(get(d.key))
		if err != nil || value <= 0 {
			reject(d.key)
			continue
		}
		*d.target = value
	}

	if demo, err := strconv.ParseBool(get("demo_mode")); err != nil {
		reject("demo_mode")
	} else {
		cfg.DemoMode = demo
	}

	if port, err := strconv.Atoi(get("http_port")); err != nil || port <= 0 || port > 65535 {
		reject("http_port")
	} else {
		cfg.HTTPPort = port
	}

	if weeks, err := strconv.Atoi(get("planning_weeks")); err != nil || weeks <= 0 {
		reject("planning_weeks")
	} else {
		cfg.PlanningWeeks = weeks
	}

	cfg.LogLevel = strings.ToLower(get("log_level"))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		reject("log_level")
	}

	cfg.WatchSchedule = get("watch_schedule")
	if _, err := cron.ParseStandard(cfg.WatchSchedule); err != nil {
		reject("watch_schedule")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("variables d'environnement invalides: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}
