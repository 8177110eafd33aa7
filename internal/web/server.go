// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package web

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/parkspot/parkspot/internal/observability"
)

// Server serves the public API.
type Server struct {
	addr       string
	handlers   *handlers
	metrics    *observability.Metrics
	logger     *slog.Logger
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics records request counts and latency into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates a Server for svc listening on addr.
func NewServer(addr string, svc Authenticator, opts ...Option) (*Server, error) {
	if svc == nil {
		return nil, oops.Errorf("authenticator is required")
	}
	s := &Server{addr: addr, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		return nil, oops.Errorf("logger cannot be nil")
	}
	s.handlers = &handlers{svc: svc, logger: s.logger}
	return s, nil
}

// Handler returns the route mux without binding a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /register", s.instrument("/register", s.handlers.register))
	mux.Handle("POST /token", s.instrument("/token", s.handlers.token))
	mux.Handle("GET /users/me", s.instrument("/users/me", s.handlers.me))
	return mux
}

// Start listens on addr and serves in the background. The returned channel
// receives a serve failure and is closed once the server stops.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("web server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("web server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("web server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop drains in-flight requests. Stopping a stopped server is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown web server").Wrap(err)
		}
	}
	s.logger.Info("web server stopped")
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		if s.metrics != nil {
			s.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
			s.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
		s.logger.DebugContext(r.Context(), "request served",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
