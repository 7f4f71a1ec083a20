package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.ChallengeTTL != 5*time.Minute {
		t.Errorf("expected default challenge TTL 5m, got %s", cfg.ChallengeTTL)
	}
	if cfg.ChallengeMaxAttempts != 3 {
		t.Errorf("expected default max attempts 3, got %d", cfg.ChallengeMaxAttempts)
	}
	if cfg.GateThreshold != "1000" {
		t.Errorf("expected default gate threshold 1000, got %s", cfg.GateThreshold)
	}
	if cfg.MigrationsPath != "migrations" {
		t.Errorf("expected default migrations path, got %s", cfg.MigrationsPath)
	}
	if cfg.AuthEnabled {
		t.Error("expected auth disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("CHALLENGE_MAX_ATTEMPTS", "5")
	t.Setenv("RESERVATION_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.HTTPPort != "9999" {
		t.Errorf("expected port 9999, got %s", cfg.HTTPPort)
	}
	if cfg.ChallengeMaxAttempts != 5 {
		t.Errorf("expected max attempts 5, got %d", cfg.ChallengeMaxAttempts)
	}
	if cfg.ReservationTTL != 30*time.Minute {
		t.Errorf("expected reservation TTL 30m, got %s", cfg.ReservationTTL)
	}
}
