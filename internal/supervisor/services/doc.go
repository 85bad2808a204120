// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

/*
Package services provides suture.Service wrappers for MovieRec components.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve method and names itself through fmt.Stringer for supervisor logs.

# Available Services

HTTP Server (HTTPServerService):
  - Opens the listener inside Serve so a bind failure is a service failure
  - Shuts the server down gracefully when the context ends
  - Exposes the bound address through Addr

WebSocket Hub (WebSocketHubService):
  - Runs websocket.Hub, which streams training progress to clients
  - Closes every client on shutdown

Retrain Scheduler (RetrainService):
  - Trains once on startup when no model is loaded (optional)
  - Retrains on a fixed interval (optional)
  - Logs failed or skipped runs without failing the service

# Usage Example

	tree, _ := supervisor.NewSupervisorTree(slogger, supervisor.DefaultTreeConfig())

	tree.AddTrainingService(services.NewRetrainService(engine, services.RetrainConfig{
	    OnStartup: cfg.Training.OnStartup,
	    Interval:  cfg.Training.Interval,
	}, logger))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout, logger))

	err := tree.Serve(ctx)

# Error Handling

Return values determine supervisor behavior:

	nil         -> service stopped cleanly, will not restart
	error       -> service crashed, supervisor will restart it
	ctx.Err()   -> shutdown requested, normal termination
*/
package services
