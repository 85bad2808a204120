// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package recommend

import (
	"fmt"
	"time"
)

// Config contains the engine configuration.
type Config struct {
	// Paths locates the artifacts loaded by Reload.
	Paths Paths `json:"paths"`

	// DefaultN is the result count used when the caller does not choose one.
	DefaultN int `json:"default_n"`

	// MaxN caps the result count of a single lookup.
	MaxN int `json:"max_n"`

	// CacheSize is the number of result lists kept. Zero disables caching.
	CacheSize int `json:"cache_size"`

	// CacheTTL bounds how long a cached result list is served.
	CacheTTL time.Duration `json:"cache_ttl"`

	// TrainTimeout bounds a single Retrain, pipeline and reload included.
	TrainTimeout time.Duration `json:"train_timeout"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		Paths: Paths{
			Records: "artifacts/data_preparation/prepared.csv",
			Vectors: "artifacts/model_trainer/movie_embeddings.gob.gz",
			Posters: "artifacts/data_ingestion/final.csv",
		},
		DefaultN:     12,
		MaxN:         100,
		CacheSize:    1024,
		CacheTTL:     10 * time.Minute,
		TrainTimeout: 30 * time.Minute,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Paths.Records == "" {
		return fmt.Errorf("paths.records must be set")
	}
	if c.Paths.Vectors == "" {
		return fmt.Errorf("paths.vectors must be set")
	}
	if c.DefaultN < 1 {
		return fmt.Errorf("default_n must be positive, got %d", c.DefaultN)
	}
	if c.MaxN < c.DefaultN {
		return fmt.Errorf("max_n (%d) must be >= default_n (%d)", c.MaxN, c.DefaultN)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", c.CacheSize)
	}
	if c.CacheSize > 0 && c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive when caching is enabled, got %v", c.CacheTTL)
	}
	if c.TrainTimeout <= 0 {
		return fmt.Errorf("train_timeout must be positive, got %v", c.TrainTimeout)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
