package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// NMCBaseURL is the root of the weather service REST API.
	NMCBaseURL  string
	HTTPTimeout time.Duration

	// FetchInterval controls how often the station is refreshed.
	FetchInterval time.Duration

	// Location used to decide which forecast entry is "today".
	Location *time.Location

	StationConfigPath string
	ArchiveDir        string

	// In-memory report retention.
	ReportHistory int           // max number of reports kept (0 = unlimited)
	ReportMaxAge  time.Duration // max age of reports (0 = unlimited)

	StatusServerEnabled bool
	Port                string

	LogLevel  string
	LogFormat string

	// EnvFileErr is why no .env file was applied, nil when one was.
	EnvFileErr error
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	cfg.EnvFileErr = godotenv.Load()

	cfg.NMCBaseURL = strings.TrimRight(getenvDefault("NMC_BASE_URL", "http://www.nmc.cn"), "/")

	interval, err := parseDuration("FETCH_INTERVAL", "30m")
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: must be positive")
	}
	cfg.FetchInterval = interval

	// 0 disables the client timeout.
	timeout, err := parseDuration("HTTP_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	tz := getenvDefault("TIMEZONE", "Asia/Shanghai")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	cfg.StationConfigPath = getenvDefault("STATION_CONFIG_PATH", "config.json")
	cfg.ArchiveDir = getenvDefault("ARCHIVE_DIR", "WeatherJson")

	cfg.ReportHistory = getenvInt("REPORT_HISTORY", 48) // a day of cycles at 30-minute intervals

	maxAge, err := parseDuration("REPORT_MAX_AGE", "24h")
	if err != nil {
		return nil, err
	}
	cfg.ReportMaxAge = maxAge

	cfg.StatusServerEnabled = getenvBool("STATUS_SERVER_ENABLED", false)
	cfg.Port = getenvDefault("PORT", "8080")

	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", cfg.LogLevel)
	}

	cfg.LogFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "text"))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (allowed: text, json)", cfg.LogFormat)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
