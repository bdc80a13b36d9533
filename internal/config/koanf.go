// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/spatial/config.yaml",
	"/etc/spatial/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "/data/spatial.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Cache: CacheConfig{
			Backend:  CacheBackendMemory,
			TTL:      time.Hour,
			Capacity: 10000,
		},
		Temporal: TemporalConfig{
			MaxRepairAttempts: 10,
			RepairInterval:    6 * time.Hour,
			RepairRate:        20,
			DefaultActor:      "system",
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              3857,
			Timeout:           30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RateLimitRequests: 300,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the config file and the
// environment, in increasing order of precedence, and validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envMappings maps environment variable names to koanf paths. Variables not
// listed are ignored so unrelated environment does not leak into config.
var envMappings = map[string]string{
	"duckdb_path":                  "database.path",
	"duckdb_max_memory":            "database.max_memory",
	"duckdb_threads":               "database.threads",
	"cache_backend":                "cache.backend",
	"cache_ttl":                    "cache.ttl",
	"cache_capacity":               "cache.capacity",
	"cache_badger_path":            "cache.badger_path",
	"temporal_max_repair_attempts": "temporal.max_repair_attempts",
	"temporal_repair_interval":     "temporal.repair_interval",
	"temporal_repair_rate":         "temporal.repair_rate",
	"temporal_default_actor":       "temporal.default_actor",
	"http_host":                    "server.host",
	"http_port":                    "server.port",
	"http_timeout":                 "server.timeout",
	"http_shutdown_timeout":        "server.shutdown_timeout",
	"rate_limit_requests":          "server.rate_limit_requests",
	"rate_limit_window":            "server.rate_limit_window",
	"log_level":                    "logging.level",
	"log_format":                   "logging.format",
	"log_caller":                   "logging.caller",
}

// envTransformFunc turns DUCKDB_PATH into database.path and so on.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
