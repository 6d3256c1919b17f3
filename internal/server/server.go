// Package server exposes the topology pipeline and the snapshot store over
// HTTP.
//
// Routes:
//
//	GET    /health
//	GET    /metrics
//	POST   /api/v1/topology
//	POST   /api/v1/topology/layers/{layer}
//	POST   /api/v1/snapshots
//	GET    /api/v1/snapshots
//	GET    /api/v1/snapshots/{id}
//	DELETE /api/v1/snapshots/{id}
//	GET    /api/v1/snapshots/{id}/layers/{layer}
//
// Layers in paths are 1-based. Errors are returned as
// {"error": {"code": "...", "message": "..."}} with a status derived from the
// error code.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topolayer/pkg/config"
	"github.com/matzehuels/topolayer/pkg/observability"
	"github.com/matzehuels/topolayer/pkg/pipeline"
	"github.com/matzehuels/topolayer/pkg/store"
)

// Defaults.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 32 << 20
	shutdownTimeout     = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr         string
	CORSOrigins  []string
	MaxBodyBytes int64

	// Panel supplies defaults for fields, layers and units that a request
	// leaves unset.
	Panel config.Config

	// Metrics, when set, is served on /metrics.
	Metrics *observability.Metrics

	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	opts   Options
	logger *log.Logger
	router http.Handler
}

// New creates a server over runner and st.
func New(runner *pipeline.Runner, st store.Store, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	opts.Panel = opts.Panel.WithDefaults()
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := &Server{
		runner: runner,
		store:  st,
		opts:   opts,
		logger: opts.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	}
}
