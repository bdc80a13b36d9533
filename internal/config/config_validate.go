// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"fmt"

	"github.com/tomtom215/spatial/internal/logging"
	"github.com/tomtom215/spatial/internal/validation"
)

// Validate checks struct tags first, then the rules that span fields.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	validators := []func() error{
		c.validateLogging,
		c.validateCache,
		c.validateServer,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Backend == CacheBackendLRU && c.Cache.Capacity == 0 {
		return fmt.Errorf("cache.capacity must be positive for the lru backend")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.RateLimitRequests > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive when rate limiting is enabled")
	}
	return nil
}
