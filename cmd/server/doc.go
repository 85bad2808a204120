// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package main is the entry point for the MovieRec server.

MovieRec answers "movies similar to X" from a catalog whose descriptions
have been normalized and embedded as vectors. The server loads the
artifacts written by the training pipeline, serves recommendations from
memory and can rerun the pipeline on request or on a schedule.

# Application Architecture

	RootSupervisor ("movierec")
	├── TrainingSupervisor ("training-layer")
	│   └── Retrain scheduler (startup and interval retraining)
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket Hub (training progress)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog with JSON or console output
 3. Embedder: hashing or HTTP provider, optionally cached in BadgerDB
 4. Pipeline: ingestion, transformation, preparation, training
 5. Engine: loads existing artifacts if present
 6. HTTP Server: Chi router with middleware stack
 7. Supervisor Tree: Suture v4 process supervision

# Configuration

Priority: Environment variables > Config file > Defaults

	# Server
	HTTP_PORT=8000
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Data
	ARTIFACTS_DIR=artifacts
	DATASET_URL=https://example.com/movies.zip
	DRIVE_FILE_ID=<google drive file id>

	# Embeddings
	EMBEDDING_PROVIDER=hashing   # hashing or http
	EMBEDDING_URL=http://tei:8080/embed
	EMBEDDING_CACHE_ENABLED=true

	# Training
	TRAIN_ON_STARTUP=true
	TRAIN_INTERVAL=24h           # 0 disables scheduled retraining

The log level follows config file edits without a restart.

# Endpoints

	GET  /movies                  all titles
	GET  /health                  model and artifact state
	POST /recommend               ?movie_title=&n_recommendations=
	GET  /train                   run the pipeline (?async=true for 202)
	GET  /api/v1/status           training status
	GET  /ws/training             websocket progress stream
	GET  /metrics                 Prometheus metrics
	GET  /swagger/*               API documentation

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
HTTP_SHUTDOWN_TIMEOUT and a running retrain is canceled.

# Example Usage

	export DRIVE_FILE_ID=1a2b3c
	export TRAIN_ON_STARTUP=true
	./movierec

	curl -X POST 'http://localhost:8000/recommend?movie_title=Toy%20Story&n_recommendations=5'
*/
package main
