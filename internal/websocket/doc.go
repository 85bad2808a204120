// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package websocket pushes training progress to browser clients.

A Hub owns the set of connected clients and fans messages out to them. The
stream is push-only. Each Client writes hub messages as JSON text frames and
pings the peer; its reader only processes control frames (pong, close) and
skips any data frame the peer sends. A client whose buffer is full during a
broadcast is disconnected rather than allowed to stall the hub.

Message types:

  - training_progress: a pipeline stage started, completed or failed
  - training_completed: a retrain finished, with its outcome and duration

Every message is JSON of the form {"type": "...", "data": {...}}.

Usage:

	hub := websocket.NewHub()
	go func() { _ = hub.RunWithContext(ctx) }()

	hub.BroadcastTrainingProgress(&websocket.TrainingProgressData{
	    Stage:  "Data Preparation",
	    Status: "started",
	    Index:  3,
	    Total:  4,
	})

In the server the hub runs as a suture service; see internal/supervisor.
*/
package websocket
