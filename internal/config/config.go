package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	// DatabaseURL empty means storage is unconfigured and fallback payloads are served.
	DatabaseURL    string
	DBMaxConns     int
	MigrateOnStart bool

	LogLevel  string
	LogFormat string

	MaxBodyBytes       int64
	CORSAllowedOrigins []string

	RateLimitEnabled      bool
	RateLimitWritesPerMin int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	ShutdownTimeout  time.Duration
}

// Parse loads an optional .env file and reads the environment.
func Parse() Config {
	_ = godotenv.Load()

	return Config{
		AppEnv:                getString("APP_ENV", "dev"),
		Port:                  getString("PORT", "8080"),
		DatabaseURL:           getString("DATABASE_URL", ""),
		DBMaxConns:            getInt("DB_MAX_CONNS", 4),
		MigrateOnStart:        getBool("MIGRATE_ON_START", true),
		LogLevel:              getString("LOG_LEVEL", "info"),
		LogFormat:             getString("LOG_FORMAT", "console"),
		MaxBodyBytes:          int64(getInt("MAX_BODY_BYTES", 16_384)),
		CORSAllowedOrigins:    parseList(getString("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitEnabled:      getBool("RL_ENABLED", false),
		RateLimitWritesPerMin: getInt("RL_WRITES_PER_MIN", 30),
		HTTPReadTimeout:       getDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout:      getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		ShutdownTimeout:       getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// StorageConfigured reports whether a database connection was requested.
func (c Config) StorageConfigured() bool { return c.DatabaseURL != "" }

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT: invalid value %q", c.Port))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES: must be positive"))
	}
	if c.DBMaxConns <= 0 {
		errs = append(errs, errors.New("DB_MAX_CONNS: must be positive"))
	}
	if c.RateLimitEnabled && c.RateLimitWritesPerMin <= 0 {
		errs = append(errs, errors.New("RL_WRITES_PER_MIN: must be positive when RL_ENABLED"))
	}
	if c.AppEnv == "production" && !c.StorageConfigured() {
		errs = append(errs, errors.New("DATABASE_URL: required when APP_ENV=production"))
	}
	return errors.Join(errs...)
}

func parseList(csv string) []string {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(csv, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
