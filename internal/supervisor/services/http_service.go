// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	Serve(l net.Listener) error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs an HTTP server under supervision.
//
// The listener is opened inside Serve, so a port that is already taken
// fails the service (and lets suture back off) instead of failing in a
// background goroutine. On cancellation the server is shut down
// gracefully within shutdownTimeout.
//
//	server := &http.Server{Handler: router.Setup()}
//	svc := services.NewHTTPServerService(server, ":8000", 10*time.Second, logger)
//	tree.AddAPIService(svc)
type HTTPServerService struct {
	server          HTTPServer
	addr            string
	shutdownTimeout time.Duration
	logger          zerolog.Logger
	name            string

	mu    sync.Mutex
	bound net.Addr
}

// NewHTTPServerService creates the service. A non-positive shutdownTimeout
// defaults to 10s.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server HTTPServer, addr string, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With().Str("service", "http-server").Logger(),
		name:            "http-server",
	}
}

// Addr returns the address the server is listening on, or nil before the
// listener is open.
func (h *HTTPServerService) Addr() net.Addr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bound
}

// Serve implements suture.Service. It returns ctx.Err() after a graceful
// shutdown, or the listen, serve or shutdown error.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", h.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", h.addr, err)
	}

	h.mu.Lock()
	h.bound = ln.Addr()
	h.mu.Unlock()

	h.logger.Info().Str("addr", ln.Addr().String()).Msg("http server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// ctx is already canceled, so shutdown gets its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		h.logger.Info().Dur("timeout", h.shutdownTimeout).Msg("http server shutting down")
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer; suture names the service with it.
func (h *HTTPServerService) String() string {
	return h.name
}
