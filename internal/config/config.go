// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package config loads the layered configuration of the spatial version store:
// built-in defaults, then an optional YAML file, then environment variables.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Temporal TemporalConfig `koanf:"temporal"`
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig configures the DuckDB file holding the version tables.
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory" validate:"required"`
	Threads   int    `koanf:"threads" validate:"gte=0"`
}

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendLRU    = "lru"
	CacheBackendBadger = "badger"
)

// CacheConfig configures the version lookup cache.
type CacheConfig struct {
	Backend string        `koanf:"backend" validate:"oneof=memory lru badger"`
	TTL     time.Duration `koanf:"ttl" validate:"gt=0"`

	// Capacity bounds the number of identities held by the lru backend.
	Capacity int `koanf:"capacity" validate:"gte=0"`

	// BadgerPath is the directory of the badger backend; empty runs badger in memory.
	BadgerPath string `koanf:"badger_path"`
}

// TemporalConfig tunes the versioning engine.
type TemporalConfig struct {
	// MaxRepairAttempts bounds the nudge-and-retry loop of FixVersions.
	MaxRepairAttempts int `koanf:"max_repair_attempts" validate:"gte=1,lte=1000"`

	// RepairInterval is the period of the background repair sweep; 0 disables it.
	RepairInterval time.Duration `koanf:"repair_interval" validate:"gte=0"`

	// RepairRate limits identities repaired per second during a sweep.
	RepairRate float64 `koanf:"repair_rate" validate:"gt=0"`

	// DefaultActor is stamped on writes that carry no actor.
	DefaultActor string `koanf:"default_actor" validate:"required"`
}

// ServerConfig configures the HTTP interface.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// RateLimitRequests per RateLimitWindow per client IP; 0 disables limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the listen address of the HTTP interface.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
