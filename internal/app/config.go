package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	AppEnv   string
	HTTPAddr string

	SeedSampleData bool
	SeedFile       string

	AuditDBDSN        string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifeMins int

	CSRFEnforced            bool
	WriteRateLimitPerMinute int
	ShutdownTimeout         time.Duration
}

func LoadConfig() Config {
	return Config{
		AppEnv:                  envOrDefault("APP_ENV", "development"),
		HTTPAddr:                envOrDefault("HTTP_ADDR", ":8080"),
		SeedSampleData:          boolOrDefault("SEED_SAMPLE_DATA", true),
		SeedFile:                strings.TrimSpace(os.Getenv("SEED_FILE")),
		AuditDBDSN:              strings.TrimSpace(os.Getenv("AUDIT_DB_DSN")),
		DBMaxOpenConns:          intOrDefault("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:          intOrDefault("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifeMins:       intOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30),
		CSRFEnforced:            boolOrDefault("CSRF_ENFORCED", false),
		WriteRateLimitPerMinute: intOrDefault("WRITE_RATE_LIMIT_PER_MINUTE", 120),
		ShutdownTimeout:         time.Duration(intOrDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsToInt(v string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(v))
	return n
}

func intOrDefault(key string, fallback int) int {
	v := stringsToInt(os.Getenv(key))
	if v <= 0 {
		return fallback
	}
	return v
}

func boolOrDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
