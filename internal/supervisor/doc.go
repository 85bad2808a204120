// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package supervisor provides process supervision for MovieRec using suture v4.

The long-running parts of the server are organized into three layers so a
failure in one does not take down the others:

	movierec
	├── training-layer
	│   └── RetrainService (startup and interval retraining)
	├── messaging-layer
	│   └── WebSocketHubService (training progress stream)
	└── api-layer
	    └── HTTPServerService

A pipeline that keeps failing only affects the training layer. The API
keeps answering from the store that is already loaded.

# Configuration

TreeConfig controls restart behavior. Zero fields take suture's defaults:

	config := supervisor.TreeConfig{
	    FailureThreshold: 5.0,              // failures before backoff
	    FailureDecay:     30.0,             // seconds for failures to decay
	    FailureBackoff:   15 * time.Second, // backoff duration
	    ShutdownTimeout:  10 * time.Second, // per-service shutdown timeout
	}

# Logging

Supervisor events (service starts, failures, backoff) are logged through
sutureslog into the zerolog pipeline via logging.NewSlogHandler.

# Debugging Shutdown Issues

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logging.Warn().Str("service", svc.Name).Msg("service did not stop")
	}
*/
package supervisor
