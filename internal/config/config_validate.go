// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/movierec/internal/validation"
)

// Validate checks field ranges with the shared validator, then the rules
// that span several fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateEmbedding(); err != nil {
		return err
	}
	if err := c.validateServerTimeouts(); err != nil {
		return err
	}
	return c.validateTraining()
}

// validateEmbedding checks provider-specific requirements.
func (c *Config) validateEmbedding() error {
	switch c.Embedding.Provider {
	case "http":
		if c.Embedding.URL == "" {
			return fmt.Errorf("EMBEDDING_URL is required when EMBEDDING_PROVIDER=http")
		}
	case "hashing":
		if c.Embedding.Dimension < 1 {
			return fmt.Errorf("EMBEDDING_DIMENSION must be at least 1 for the hashing provider")
		}
	}
	if c.Embedding.CacheEnabled && c.Embedding.CachePath == "" {
		return fmt.Errorf("EMBEDDING_CACHE_PATH is required when EMBEDDING_CACHE_ENABLED=true")
	}
	return nil
}

// validateServerTimeouts ensures a synchronous /train response can be written.
func (c *Config) validateServerTimeouts() error {
	if c.Server.WriteTimeout < c.Training.Timeout {
		return fmt.Errorf("HTTP_WRITE_TIMEOUT (%s) must be at least TRAIN_TIMEOUT (%s)",
			c.Server.WriteTimeout, c.Training.Timeout)
	}
	return nil
}

// minTrainInterval keeps scheduled retrains from running back to back.
const minTrainInterval = 5 * time.Minute

// validateTraining checks the retrain schedule.
func (c *Config) validateTraining() error {
	if c.Training.Interval > 0 && c.Training.Interval < minTrainInterval {
		return fmt.Errorf("TRAIN_INTERVAL must be 0 (disabled) or at least 5m, got %s", c.Training.Interval)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports whether a wildcard origin is configured in
// production, which is logged at startup.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.HasWildcardCORS()
}
