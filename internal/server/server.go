// Package server exposes decomposition over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/rectsweep/internal/cache"
	"github.com/Sumatoshi-tech/rectsweep/internal/observability"
	"github.com/Sumatoshi-tech/rectsweep/pkg/config"
)

var errNotServing = errors.New("server is not serving")

// Options configures a Server. Only Config is required.
type Options struct {
	Config config.ServerConfig

	// Workers bounds concurrent layer decompositions for /v1/visible.
	Workers int

	Logger         *slog.Logger
	Tracer         trace.Tracer
	RED            *observability.REDMetrics
	Sweep          *observability.SweepMetrics
	MetricsHandler http.Handler
}

// Server is the rectsweep HTTP API.
type Server struct {
	opts    Options
	handler http.Handler
	results *cache.LRU[cache.SceneKey, decomposition]
	serving atomic.Bool
}

// New builds the routes for opts.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Tracer == nil {
		opts.Tracer = nooptrace.NewTracerProvider().Tracer("rectsweep")
	}

	srv := &Server{
		opts:    opts,
		results: cache.NewLRU[cache.SceneKey, decomposition](opts.Config.CacheEntries),
	}

	mux := http.NewServeMux()
	mux.Handle("POST /v1/decompose", srv.instrument(opDecompose, srv.handleDecompose))
	mux.Handle("POST /v1/visible", srv.instrument(opVisible, srv.handleVisible))
	mux.Handle("GET /healthz", HealthHandler())
	mux.Handle("GET /readyz", ReadyHandler(srv.readyCheck))

	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	srv.handler = observability.HTTPMiddleware(opts.Tracer, opts.Logger, mux)

	return srv
}

// Handler returns the root handler with tracing applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.opts.Config.Host, strconv.Itoa(s.opts.Config.Port))
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr(), err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then drains in-flight
// requests for at most the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	cfg := s.opts.Config

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	s.serving.Store(true)
	s.opts.Logger.InfoContext(ctx, "server listening",
		"addr", ln.Addr().String(), "cache_entries", cfg.CacheEntries)

	select {
	case err := <-errCh:
		s.serving.Store(false)

		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.serving.Store(false)
	s.opts.Logger.InfoContext(ctx, "server shutting down", "timeout", cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}

	return nil
}

// CacheStats reports the decomposition result cache counters.
func (s *Server) CacheStats() cache.Stats {
	return s.results.Stats()
}

func (s *Server) readyCheck(context.Context) error {
	if !s.serving.Load() {
		return errNotServing
	}

	return nil
}
