// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

// Package bootstrap turns the application configuration into the embedder,
// pipeline and engine configurations shared by the server and the
// pipeline CLI.
package bootstrap

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/breaker"
	"github.com/tomtom215/movierec/internal/config"
	"github.com/tomtom215/movierec/internal/embedding"
	"github.com/tomtom215/movierec/internal/features"
	"github.com/tomtom215/movierec/internal/pipeline"
	"github.com/tomtom215/movierec/internal/recommend"
)

// Pipeline creates the configured embedder and builds the four-stage
// pipeline around it. The returned close function releases the embedding
// cache and is never nil.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func Pipeline(cfg *config.Config, logger zerolog.Logger) (*pipeline.Pipeline, func() error, error) {
	embedder, closeEmbedder, err := embedding.New(EmbeddingConfig(cfg))
	if err != nil {
		return nil, closeEmbedder, fmt.Errorf("create embedder: %w", err)
	}

	logger.Info().
		Str("provider", cfg.Embedding.Provider).
		Str("model", embedder.Model()).
		Int("dimension", embedder.Dimension()).
		Bool("cache", cfg.Embedding.CacheEnabled).
		Msg("embedder initialized")

	return pipeline.Build(PipelineConfig(cfg), embedder, logger), closeEmbedder, nil
}

// EmbeddingConfig maps the embedding section onto the embedder factory.
func EmbeddingConfig(cfg *config.Config) embedding.Config {
	ec := cfg.Embedding
	return embedding.Config{
		Provider:  ec.Provider,
		Dimension: ec.Dimension,
		Bigrams:   ec.Bigrams,
		HTTP: embedding.HTTPConfig{
			URL:               ec.URL,
			Model:             ec.Model,
			Dimension:         ec.Dimension,
			APIKey:            ec.APIKey,
			Timeout:           ec.Timeout,
			RequestsPerSecond: ec.RequestsPerSecond,
			Burst:             ec.Burst,
			Breaker:           breaker.DefaultConfig(),
		},
		CacheEnabled: ec.CacheEnabled,
		Cache: embedding.CacheConfig{
			Path: ec.CachePath,
			TTL:  ec.CacheTTL,
		},
	}
}

// PipelineConfig lays the pipeline artifacts out under the artifact root
// and applies the ingestion and feature settings.
func PipelineConfig(cfg *config.Config) pipeline.Config {
	pc := pipeline.DefaultConfig(cfg.Artifacts.Root)

	pc.Ingestion.SourceURL = cfg.Ingestion.DownloadURL()
	pc.Ingestion.DownloadTimeout = cfg.Ingestion.DownloadTimeout
	pc.Ingestion.Breaker = breaker.DefaultConfig()
	if cfg.Ingestion.LocalFile != "" {
		pc.Ingestion.LocalFile = cfg.Ingestion.LocalFile
	} else {
		pc.Ingestion.LocalFile = filepath.Join(cfg.Artifacts.IngestionDir(), "data.zip")
	}

	pc.Composer = &features.Composer{
		GenreWeight:     cfg.Features.GenreWeight,
		IncludeKeywords: cfg.Features.IncludeKeywords,
		ExpandLanguage:  cfg.Features.ExpandLanguage,
		DropColumns:     cfg.Features.DropColumns,
	}
	pc.Workers = cfg.Training.Workers
	pc.BatchSize = cfg.Embedding.BatchSize
	return pc
}

// EngineConfig creates the engine configuration. The engine reads the
// same artifacts the pipeline writes.
func EngineConfig(cfg *config.Config) *recommend.Config {
	return &recommend.Config{
		Paths: recommend.Paths{
			Records: cfg.Artifacts.PreparedFile(),
			Vectors: cfg.Artifacts.VectorsFile(),
			Posters: cfg.Artifacts.FinalFile(),
		},
		DefaultN:     cfg.Recommend.DefaultN,
		MaxN:         cfg.Recommend.MaxN,
		CacheSize:    cfg.Recommend.CacheSize,
		CacheTTL:     cfg.Recommend.CacheTTL,
		TrainTimeout: cfg.Training.Timeout,
	}
}
