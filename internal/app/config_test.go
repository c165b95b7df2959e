package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_ADDR", "SEED_SAMPLE_DATA", "SEED_FILE", "AUDIT_DB_DSN", "CSRF_ENFORCED", "WRITE_RATE_LIMIT_PER_MINUTE", "SHUTDOWN_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.HTTPAddr != ":8080" || cfg.AppEnv != "development" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.SeedSampleData || cfg.SeedFile != "" || cfg.AuditDBDSN != "" {
		t.Fatalf("unexpected seed/audit defaults: %+v", cfg)
	}
	if cfg.WriteRateLimitPerMinute != 120 || cfg.CSRFEnforced {
		t.Fatalf("unexpected security defaults: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout: %s", cfg.ShutdownTimeout)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("SEED_SAMPLE_DATA", "off")
	t.Setenv("SEED_FILE", " /tmp/seed.yaml ")
	t.Setenv("WRITE_RATE_LIMIT_PER_MINUTE", "-4")
	t.Setenv("CSRF_ENFORCED", "yes")

	cfg := LoadConfig()
	if cfg.HTTPAddr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr: %s", cfg.HTTPAddr)
	}
	if cfg.SeedSampleData {
		t.Fatalf("expected sample seeding off")
	}
	if cfg.SeedFile != "/tmp/seed.yaml" {
		t.Fatalf("expected trimmed seed file, got %q", cfg.SeedFile)
	}
	if cfg.WriteRateLimitPerMinute != 120 {
		t.Fatalf("non-positive limit must fall back, got %d", cfg.WriteRateLimitPerMinute)
	}
	if !cfg.CSRFEnforced {
		t.Fatalf("expected csrf enforced")
	}
}

func TestBoolOrDefaultUnknownValue(t *testing.T) {
	t.Setenv("SOME_FLAG", "maybe")
	if !boolOrDefault("SOME_FLAG", true) {
		t.Fatalf("unknown value must fall back to default")
	}
}
