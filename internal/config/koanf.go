// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

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

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/movierec/config.yaml",
	"/etc/movierec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultDropColumns are the vote, financial and identifier columns of the
// reference dataset.
var defaultDropColumns = []string{
	"positive_users", "positive_count", "negative_users", "negative_count",
	"vote_average", "vote_count", "status", "release_date", "revenue",
	"runtime", "budget", "poster_path", "movieId", "imdbId", "tmdb_id",
	"imdb_id", "adult", "tmdbId",
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    35 * time.Minute,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Security: SecurityConfig{
			CORSOrigins:        []string{"*"},
			RateLimitReqs:      100,
			RateLimitWindow:    time.Minute,
			RateLimitDisabled:  false,
			TrainRateLimitReqs: 2,
		},
		Artifacts: ArtifactsConfig{
			Root: "artifacts",
		},
		Ingestion: IngestionConfig{
			DownloadTimeout: 10 * time.Minute,
		},
		Features: FeaturesConfig{
			GenreWeight:     3,
			IncludeKeywords: true,
			ExpandLanguage:  false,
			DropColumns:     append([]string(nil), defaultDropColumns...),
		},
		Embedding: EmbeddingConfig{
			Provider:          "hashing",
			Dimension:         384,
			Bigrams:           true,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 0, // Unlimited
			Burst:             1,
			BatchSize:         64,
			CacheEnabled:      false,
			CachePath:         "artifacts/embedding_cache",
			CacheTTL:          0, // Never expire
		},
		Recommend: RecommendConfig{
			DefaultN:  12,
			MaxN:      100,
			CacheSize: 1024,
			CacheTTL:  10 * time.Minute,
		},
		Training: TrainingConfig{
			OnStartup: false,
			Interval:  0, // Manual retrains only
			Timeout:   30 * time.Minute,
			Workers:   0,
		},
	}
}

// Load loads configuration with koanf:
//
//  1. Defaults: defaultConfig
//  2. Config File: CONFIG_PATH or the first of DefaultConfigPaths that exists
//  3. Environment Variables: the names in envMappings
//
// and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := FindConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
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

// FindConfigFile returns CONFIG_PATH if that file exists, else the first of
// DefaultConfigPaths that exists, else "".
func FindConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"features.drop_columns",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings; YAML lists are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Security
	"cors_origins":          "security.cors_origins",
	"rate_limit_requests":   "security.rate_limit_reqs",
	"rate_limit_window":     "security.rate_limit_window",
	"disable_rate_limit":    "security.rate_limit_disabled",
	"train_rate_limit_reqs": "security.train_rate_limit_reqs",

	// Artifacts and ingestion
	"artifacts_dir":    "artifacts.root",
	"dataset_url":      "ingestion.source_url",
	"drive_file_id":    "ingestion.drive_file_id",
	"dataset_zip_path": "ingestion.local_file",
	"download_timeout": "ingestion.download_timeout",

	// Features
	"genre_weight":     "features.genre_weight",
	"include_keywords": "features.include_keywords",
	"expand_language":  "features.expand_language",
	"drop_columns":     "features.drop_columns",

	// Embedding
	"embedding_provider":      "embedding.provider",
	"embedding_dimension":     "embedding.dimension",
	"embedding_bigrams":       "embedding.bigrams",
	"embedding_url":           "embedding.url",
	"embedding_model":         "embedding.model",
	"embedding_api_key":       "embedding.api_key",
	"embedding_timeout":       "embedding.timeout",
	"embedding_rps":           "embedding.requests_per_second",
	"embedding_burst":         "embedding.burst",
	"embedding_batch_size":    "embedding.batch_size",
	"embedding_cache_enabled": "embedding.cache_enabled",
	"embedding_cache_path":    "embedding.cache_path",
	"embedding_cache_ttl":     "embedding.cache_ttl",

	// Recommend
	"default_n_recommendations": "recommend.default_n",
	"max_n_recommendations":     "recommend.max_n",
	"recommend_cache_size":      "recommend.cache_size",
	"recommend_cache_ttl":       "recommend.cache_ttl",

	// Training
	"train_on_startup": "training.on_startup",
	"train_interval":   "training.interval",
	"train_timeout":    "training.timeout",
	"prepare_workers":  "training.workers",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unknown variables map to "" and are skipped, so unrelated environment
// variables never leak into the configuration.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - EMBEDDING_PROVIDER -> embedding.provider
//   - TRAIN_INTERVAL -> training.interval
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever the file at path changes.
// The callback runs on the watcher goroutine; callers synchronize any
// state it touches.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}

// ReloadLogging re-reads path and returns its logging section layered over
// the defaults, for applying a new log level without a restart.
func ReloadLogging(path string) (LoggingConfig, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return LoggingConfig{}, err
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return LoggingConfig{}, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	var lc LoggingConfig
	if err := k.Unmarshal("logging", &lc); err != nil {
		return LoggingConfig{}, err
	}
	if !IsValidLogLevel(lc.Level) {
		return LoggingConfig{}, fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !IsValidLogFormat(lc.Format) {
		return LoggingConfig{}, fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return lc, nil
}
