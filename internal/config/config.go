// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration.
//
// Loading order (see Load):
//  1. Defaults from defaultConfig
//  2. Optional YAML file (CONFIG_PATH or config.yaml)
//  3. Environment variables
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Security  SecurityConfig  `koanf:"security"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Ingestion IngestionConfig `koanf:"ingestion"`
	Features  FeaturesConfig  `koanf:"features"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Recommend RecommendConfig `koanf:"recommend"`
	Training  TrainingConfig  `koanf:"training"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port" validate:"min=1,max=65535"`
	Host        string        `koanf:"host"`
	ReadTimeout time.Duration `koanf:"read_timeout" validate:"gt=0"`

	// WriteTimeout must outlast training.timeout, since GET /train answers
	// only after the retrain finishes.
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gt=0"`

	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	Environment     string        `koanf:"environment" validate:"oneof=development staging production"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`

	// Format is json (production) or console (development).
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller adds file:line to each entry.
	Caller bool `koanf:"caller"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=1s"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// TrainRateLimitReqs limits GET /train per client within RateLimitWindow.
	TrainRateLimitReqs int `koanf:"train_rate_limit_reqs" validate:"min=1"`
}

// ArtifactsConfig locates the pipeline outputs.
type ArtifactsConfig struct {
	// Root holds one directory per stage.
	Root string `koanf:"root" validate:"required"`
}

// IngestionDir is where the raw dataset is downloaded and extracted.
func (a ArtifactsConfig) IngestionDir() string { return filepath.Join(a.Root, "data_ingestion") }

// FinalFile is the ingested movie CSV, also the poster source.
func (a ArtifactsConfig) FinalFile() string { return filepath.Join(a.IngestionDir(), "final.csv") }

// TransformedFile is the transformation stage output.
func (a ArtifactsConfig) TransformedFile() string {
	return filepath.Join(a.Root, "data_transformation", "transformed.csv")
}

// PreparedFile is the records artifact the service loads.
func (a ArtifactsConfig) PreparedFile() string {
	return filepath.Join(a.Root, "data_preparation", "prepared.csv")
}

// VectorsFile is the vector artifact the service loads.
func (a ArtifactsConfig) VectorsFile() string {
	return filepath.Join(a.Root, "model_trainer", "movie_embeddings.gob.gz")
}

// IngestionConfig controls the dataset download.
type IngestionConfig struct {
	// SourceURL is the dataset zip URL. Takes precedence over DriveFileID.
	SourceURL string `koanf:"source_url" validate:"omitempty,http_url"`

	// DriveFileID is a Google Drive file ID for the dataset zip.
	DriveFileID string `koanf:"drive_file_id"`

	// LocalFile is the downloaded zip; empty means <ingestion dir>/data.zip.
	LocalFile string `koanf:"local_file"`

	DownloadTimeout time.Duration `koanf:"download_timeout" validate:"gt=0"`
}

// DownloadURL returns the URL the dataset zip is fetched from, or "" when
// the data is provisioned out of band.
func (i IngestionConfig) DownloadURL() string {
	if i.SourceURL != "" {
		return i.SourceURL
	}
	if i.DriveFileID != "" {
		return "https://drive.google.com/uc?export=download&id=" + i.DriveFileID
	}
	return ""
}

// FeaturesConfig tunes description composition.
type FeaturesConfig struct {
	GenreWeight     int      `koanf:"genre_weight" validate:"min=0,max=20"`
	IncludeKeywords bool     `koanf:"include_keywords"`
	ExpandLanguage  bool     `koanf:"expand_language"`
	DropColumns     []string `koanf:"drop_columns"`
}

// EmbeddingConfig selects the embedding function.
type EmbeddingConfig struct {
	Provider  string `koanf:"provider" validate:"oneof=hashing http"`
	Dimension int    `koanf:"dimension" validate:"min=0,max=65536"`
	Bigrams   bool   `koanf:"bigrams"`

	// HTTP provider settings.
	URL               string        `koanf:"url" validate:"omitempty,http_url"`
	Model             string        `koanf:"model"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"min=0"`
	Burst             int           `koanf:"burst" validate:"min=1"`

	BatchSize int `koanf:"batch_size" validate:"min=1"`

	// Cache wraps the provider in a BadgerDB cache.
	CacheEnabled bool          `koanf:"cache_enabled"`
	CachePath    string        `koanf:"cache_path"`
	CacheTTL     time.Duration `koanf:"cache_ttl" validate:"min=0"`
}

// RecommendConfig tunes query serving.
type RecommendConfig struct {
	DefaultN  int           `koanf:"default_n" validate:"min=1"`
	MaxN      int           `koanf:"max_n" validate:"gtefield=DefaultN"`
	CacheSize int           `koanf:"cache_size" validate:"min=0"`
	CacheTTL  time.Duration `koanf:"cache_ttl" validate:"min=0"`
}

// TrainingConfig controls when the pipeline runs inside the server.
type TrainingConfig struct {
	// OnStartup runs the pipeline when the server starts and no artifacts
	// can be loaded.
	OnStartup bool `koanf:"on_startup"`

	// Interval schedules periodic retrains. Zero disables scheduling.
	Interval time.Duration `koanf:"interval" validate:"min=0"`

	// Timeout bounds one retrain.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// Workers bounds parallel text normalization; zero uses GOMAXPROCS.
	Workers int `koanf:"workers" validate:"min=0"`
}

// validLogLevels and validLogFormats mirror the validate tags on
// LoggingConfig for callers that check values outside a Config.
var (
	validLogLevels = map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	validLogFormats = map[string]bool{
		"json": true, "console": true,
	}
)

// IsValidLogLevel reports whether level is accepted by logging.level.
func IsValidLogLevel(level string) bool {
	return validLogLevels[level]
}

// IsValidLogFormat reports whether format is accepted by logging.format.
func IsValidLogFormat(format string) bool {
	return validLogFormats[format]
}
