package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Addr:               ":8080",
		Environment:        "development",
		LeaveDataFile:      "data/Sick_Leave_Data.xlsx",
		RateDataFile:       "data/Sick_Pay_rates.xlsx",
		LeaveLogFile:       "data/Leave_log.xlsx",
		PendingTTL:         15 * time.Minute,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 60,
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.LeaveDataFile != "data/Sick_Leave_Data.xlsx" {
		t.Fatalf("unexpected default leave data file: %q", cfg.LeaveDataFile)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected default model: %q", cfg.GeminiModel)
	}
}

func TestValidateAcceptsDevelopmentDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateProductionRequiresSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected production config without JWT_SECRET to fail")
	}

	cfg.JWTSecret = "secret"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected production config without ADMIN_PASSWORD_HASH to fail")
	}

	cfg.AdminPasswordHash = "$2a$10$hash"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected production config with secrets to pass, got %v", err)
	}
}

func TestValidateRejectsBadLimits(t *testing.T) {
	cfg := validConfig()
	cfg.MaxBodyBytes = 100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected tiny MAX_BODY_BYTES to fail")
	}

	cfg = validConfig()
	cfg.RateLimitPerMinute = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected zero rate limit to fail")
	}

	cfg = validConfig()
	cfg.PendingTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected zero pending TTL to fail")
	}

	cfg = validConfig()
	cfg.EmailEnabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected email without SMTP host to fail")
	}
}
