// Package server exposes health, last-run status and Prometheus metrics while
// the watcher is running.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/navbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/navbuilder/internal/logfields"
	"git.home.luguber.info/inful/navbuilder/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// Server is the admin HTTP server of the watch command.
type Server struct {
	addr    string
	tracker *Tracker
	srv     *http.Server
}

// New creates a server that serves reg on /metrics and tracker on /status.
func New(addr string, reg *prom.Registry, tracker *Tracker) *Server {
	if tracker == nil {
		tracker = NewTracker()
	}
	s := &Server{addr: addr, tracker: tracker}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.Handle("/metrics", metrics.HTTPHandler(reg))

	s.srv = &http.Server{
		Handler:           chain(slog.Default(), mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run listens on the configured address until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return ferrors.RuntimeError("admin server cannot listen").
			WithCause(err).
			WithContext("addr", s.addr).
			Build()
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()
	slog.Info("Admin server listening", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ferrors.RuntimeError("admin server stopped").WithCause(err).Build()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Admin server shutdown", logfields.Error(err))
		return ferrors.RuntimeError("admin server shutdown failed").WithCause(err).Build()
	}
	return nil
}
