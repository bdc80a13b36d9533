// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
	}
	if cfg.Temporal.MaxRepairAttempts != 10 {
		t.Errorf("Temporal.MaxRepairAttempts = %d, want 10", cfg.Temporal.MaxRepairAttempts)
	}
	if cfg.Server.Addr() != "0.0.0.0:3857" {
		t.Errorf("Server.Addr() = %q", cfg.Server.Addr())
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown backend", func(c *Config) { c.Cache.Backend = "redis" }, "Backend"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "TTL"},
		{"lru without capacity", func(c *Config) { c.Cache.Backend = CacheBackendLRU; c.Cache.Capacity = 0 }, "cache.capacity"},
		{"zero repair attempts", func(c *Config) { c.Temporal.MaxRepairAttempts = 0 }, "MaxRepairAttempts"},
		{"empty actor", func(c *Config) { c.Temporal.DefaultActor = "" }, "DefaultActor"},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "Port"},
		{"rate limit without window", func(c *Config) { c.Server.RateLimitWindow = 0 }, "rate_limit_window"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "cache:\n  backend: lru\n  capacity: 50\n  ttl: 10m\ntemporal:\n  max_repair_attempts: 3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("TEMPORAL_MAX_REPAIR_ATTEMPTS", "7")
	t.Setenv("DUCKDB_PATH", filepath.Join(dir, "spatial.duckdb"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cache.Backend != CacheBackendLRU || cfg.Cache.Capacity != 50 {
		t.Errorf("file values not applied: %+v", cfg.Cache)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL)
	}
	if cfg.Temporal.MaxRepairAttempts != 7 {
		t.Errorf("environment should override file, got %d", cfg.Temporal.MaxRepairAttempts)
	}
	if cfg.Database.Path != filepath.Join(dir, "spatial.duckdb") {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Server.Port != 3857 {
		t.Errorf("defaults should survive, got port %d", cfg.Server.Port)
	}
}

func TestEnvTransformFuncIgnoresUnknown(t *testing.T) {
	t.Parallel()

	if got := envTransformFunc("HOME"); got != "" {
		t.Errorf("expected unknown variable to be skipped, got %q", got)
	}
	if got := envTransformFunc("CACHE_BACKEND"); got != "cache.backend" {
		t.Errorf("envTransformFunc(CACHE_BACKEND) = %q", got)
	}
}
