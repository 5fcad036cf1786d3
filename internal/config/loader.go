package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the roomboard server.
type Config struct {
	HTTPPort       int
	SQLitePath     string
	SessionTTL     time.Duration
	APIPrefix      string
	AllowedOrigins []string
	LogLevel       string
	SecureCookies  bool
}

// LoadDotEnv reads KEY=VALUE pairs from the named files into the process
// environment. Variables that are already set win. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults; every malformed value is collected
// and reported in a single error.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:   8085,
		SQLitePath: "roomboard.db",
		SessionTTL: 24 * time.Hour,
		APIPrefix:  "/api",
		LogLevel:   "info",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ROOMBOARD_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "ROOMBOARD_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if path := strings.TrimSpace(os.Getenv("ROOMBOARD_SQLITE_PATH")); path != "" {
		cfg.SQLitePath = path
	}

	if ttlValue := strings.TrimSpace(os.Getenv("ROOMBOARD_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "ROOMBOARD_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if prefix, ok := os.LookupEnv("ROOMBOARD_API_PREFIX"); ok {
		cfg.APIPrefix = strings.TrimSpace(prefix)
	}

	if origins := strings.TrimSpace(os.Getenv("ROOMBOARD_ALLOWED_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if level := strings.TrimSpace(os.Getenv("ROOMBOARD_LOG_LEVEL")); level != "" {
		switch strings.ToLower(level) {
		case "debug", "info", "warn", "warning", "error":
			cfg.LogLevel = strings.ToLower(level)
		default:
			invalid = append(invalid, "ROOMBOARD_LOG_LEVEL")
		}
	}

	if secure := strings.TrimSpace(os.Getenv("ROOMBOARD_SECURE_COOKIES")); secure != "" {
		value, err := strconv.ParseBool(secure)
		if err != nil {
			invalid = append(invalid, "ROOMBOARD_SECURE_COOKIES")
		} else {
			cfg.SecureCookies = value
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Addr returns the listen address for HTTPPort.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
