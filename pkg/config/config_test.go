package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://finboard:pw@localhost:5432/finboard")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8090" {
		t.Errorf("Port = %s, want 8090", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %s, want development", cfg.Env)
	}
	if cfg.Database.MaxConns != 25 {
		t.Errorf("MaxConns = %d, want 25", cfg.Database.MaxConns)
	}
	if cfg.Database.MaxConnLifetime != time.Hour {
		t.Errorf("MaxConnLifetime = %v, want 1h", cfg.Database.MaxConnLifetime)
	}
	if cfg.Screener.MinSqueezeScore != 40 {
		t.Errorf("MinSqueezeScore = %d, want 40", cfg.Screener.MinSqueezeScore)
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")

	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://finboard:pw@localhost:5432/finboard")
	os.Setenv("ENV", "sandbox")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("ENV")
	}()

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid ENV")
	}
}

func TestLoad_Overrides(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://finboard:pw@localhost:5432/finboard")
	os.Setenv("PORT", "9000")
	os.Setenv("REDIS_ENABLED", "false")
	os.Setenv("SCREENER_MAX_PEG", "1.5")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("PORT")
		os.Unsetenv("REDIS_ENABLED")
		os.Unsetenv("SCREENER_MAX_PEG")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Port = %s, want 9000", cfg.Port)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis.Enabled = true, want false")
	}
	if cfg.Screener.MaxPEG != 1.5 {
		t.Errorf("MaxPEG = %v, want 1.5", cfg.Screener.MaxPEG)
	}
}
