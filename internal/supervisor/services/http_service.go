// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/tomtom215/reelmatch/internal/logging"
)

// HTTPServerService runs an *http.Server under supervision.
//
// Serve binds the listener itself so a bind failure is returned to the
// supervisor immediately, and so Addr reports the real port when the server
// is configured with port 0. Canceling ctx shuts the server down gracefully
// within the shutdown timeout; in-flight requests, including open
// recommendation streams, get that long to finish.
//
//	server := &http.Server{Addr: cfg.Server.Addr(), Handler: router}
//	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
type HTTPServerService struct {
	server          *http.Server
	shutdownTimeout time.Duration

	mu    sync.Mutex
	addr  net.Addr
	ready chan struct{}
}

// NewHTTPServerService wraps server. A non-positive shutdownTimeout
// defaults to 10s.
func NewHTTPServerService(server *http.Server, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		ready:           make(chan struct{}),
	}
}

// Serve implements suture.Service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", h.server.Addr)
	if err != nil {
		return fmt.Errorf("http server listen on %s: %w", h.server.Addr, err)
	}
	h.setAddr(ln.Addr())

	logging.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		logging.Info().Dur("timeout", h.shutdownTimeout).Msg("HTTP server shutting down")
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			// Shutdown gave up on draining; drop what is left.
			_ = h.server.Close() //nolint:errcheck // best-effort after a failed drain
			<-errCh
			return fmt.Errorf("http server shutdown: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (h *HTTPServerService) setAddr(addr net.Addr) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.addr = addr
	select {
	case <-h.ready:
	default:
		close(h.ready)
	}
}

// Addr returns the bound listener address, or nil before the first Serve.
func (h *HTTPServerService) Addr() net.Addr {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.addr
}

// Ready is closed once the listener is bound for the first time.
func (h *HTTPServerService) Ready() <-chan struct{} {
	return h.ready
}

// String implements fmt.Stringer; suture uses it in event logs.
func (h *HTTPServerService) String() string {
	return "http-server"
}
