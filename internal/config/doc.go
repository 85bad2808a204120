// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package config loads and validates MovieRec configuration with koanf.

# Configuration Sources

Values are layered, later sources winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, else config.yaml / config.yml in the
    working directory, else /etc/movierec/config.yaml
 3. Environment variables listed below

Only mapped environment variables are read; anything else in the
environment is ignored.

# Environment Variables

Server:
  - HTTP_PORT (8000), HTTP_HOST (0.0.0.0)
  - HTTP_READ_TIMEOUT (15s), HTTP_WRITE_TIMEOUT (35m), HTTP_IDLE_TIMEOUT (2m)
  - HTTP_SHUTDOWN_TIMEOUT (30s), ENVIRONMENT (development)

Logging:
  - LOG_LEVEL (info), LOG_FORMAT (json), LOG_CALLER (false)

Security:
  - CORS_ORIGINS (*), comma-separated
  - RATE_LIMIT_REQUESTS (100), RATE_LIMIT_WINDOW (1m), DISABLE_RATE_LIMIT
  - TRAIN_RATE_LIMIT_REQS (2)

Artifacts and ingestion:
  - ARTIFACTS_DIR (artifacts)
  - DATASET_URL or DRIVE_FILE_ID: where the dataset zip is downloaded from
  - DATASET_ZIP_PATH, DOWNLOAD_TIMEOUT (10m)

Features:
  - GENRE_WEIGHT (3), INCLUDE_KEYWORDS (true), EXPAND_LANGUAGE (false)
  - DROP_COLUMNS, comma-separated

Embedding:
  - EMBEDDING_PROVIDER (hashing | http), EMBEDDING_DIMENSION (384)
  - EMBEDDING_BIGRAMS (true), EMBEDDING_BATCH_SIZE (64)
  - EMBEDDING_URL, EMBEDDING_MODEL, EMBEDDING_API_KEY, EMBEDDING_TIMEOUT (30s)
  - EMBEDDING_RPS (0 = unlimited), EMBEDDING_BURST (1)
  - EMBEDDING_CACHE_ENABLED, EMBEDDING_CACHE_PATH, EMBEDDING_CACHE_TTL

Recommendations:
  - DEFAULT_N_RECOMMENDATIONS (12), MAX_N_RECOMMENDATIONS (100)
  - RECOMMEND_CACHE_SIZE (1024), RECOMMEND_CACHE_TTL (10m)

Training:
  - TRAIN_ON_STARTUP (false), TRAIN_INTERVAL (0 = manual only)
  - TRAIN_TIMEOUT (30m), PREPARE_WORKERS (0 = GOMAXPROCS)

# Validation

Load validates field ranges through internal/validation (errors name the
koanf path, e.g. "server.port must be at most 65535") and then the rules
that span fields, such as HTTP_WRITE_TIMEOUT covering TRAIN_TIMEOUT.

# Hot Reload

WatchConfigFile and ReloadLogging let the server apply a new log level
from the config file without restarting. Other settings need a restart.
*/
package config
