// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/recommend"
	ws "github.com/tomtom215/movierec/internal/websocket"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, websocket helpers (this file)
//   - handlers_movies.go: catalog and recommendation endpoints
//   - handlers_health.go: health and status endpoints
//   - handlers_train.go: retrain endpoint
type Handler struct {
	engine      *recommend.Engine
	wsHub       *ws.Hub
	corsOrigins []string
	startTime   time.Time

	// baseCtx outlives requests; background retrains run under it.
	baseCtx context.Context
}

// HandlerConfig carries the optional handler dependencies.
type HandlerConfig struct {
	// Hub receives websocket clients at /ws/training. Nil disables the stream.
	Hub *ws.Hub

	// CORSOrigins are the origins allowed to open a websocket. "*" allows any.
	CORSOrigins []string

	// BaseContext bounds background retrains started by /train?async=true.
	// Defaults to context.Background().
	BaseContext context.Context
}

// NewHandler creates the API handler around engine.
//
// Example:
//
//	handler := api.NewHandler(engine, api.HandlerConfig{Hub: hub})
//	router := api.NewRouter(handler, api.NewChiMiddleware(nil))
//	http.ListenAndServe(":8000", router.Setup())
//
//nolint:gocritic // HandlerConfig is a small options struct
func NewHandler(engine *recommend.Engine, cfg HandlerConfig) *Handler {
	baseCtx := cfg.BaseContext
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Handler{
		engine:      engine,
		wsHub:       cfg.Hub,
		corsOrigins: cfg.CORSOrigins,
		startTime:   time.Now(),
		baseCtx:     baseCtx,
	}
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates websocket connection origins. Requests
// without an Origin header come from non-browser clients and are allowed;
// browser origins must be in the CORS list.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range h.corsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// TrainingStream upgrades the connection and streams training events.
//
// @Summary Stream training progress
// @Description Upgrades to a websocket that receives training_progress events for every pipeline stage and a training_completed event per retrain
// @Tags Training
// @Success 101 "Switching protocols"
// @Failure 503 {object} ErrorResponse "Stream unavailable"
// @Router /ws/training [get]
func (h *Handler) TrainingStream(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "Training stream unavailable")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}
