package cli

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topolayer/internal/server"
	"github.com/matzehuels/topolayer/pkg/cache"
	"github.com/matzehuels/topolayer/pkg/observability"
	"github.com/matzehuels/topolayer/pkg/pipeline"
	"github.com/matzehuels/topolayer/pkg/store"
)

// sweepInterval is how often the in-process cache drops expired entries.
const sweepInterval = 10 * time.Minute

type serveOpts struct {
	addr        string
	redisURL    string
	mongoURI    string
	mongoDB     string
	corsOrigins []string
	metrics     bool
}

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    server.DefaultAddr,
		mongoDB: store.DefaultMongoDatabase,
		metrics: true,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the topology API over HTTP",
		Long: `Serve exposes extraction, layer views and snapshots over HTTP.

Extraction results are cached in memory, or in Redis with --redis.
Snapshots live in memory, or in MongoDB with --mongo.`,
		Example: `  topolayer serve --addr :9000 -c panel.toml
  topolayer serve --redis redis://localhost:6379/0 --mongo mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for the extraction cache")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for snapshots")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().StringSliceVar(&opts.corsOrigins, "cors-origin", nil, "allowed CORS origin (repeatable, default *)")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", opts.metrics, "serve Prometheus metrics on /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	panel, err := c.panelConfig()
	if err != nil {
		return err
	}

	ch, err := c.serverCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, "v1"), c.Logger)
	defer runner.Close()

	st, err := c.serverStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close()

	var metrics *observability.Metrics
	if opts.metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = observability.NewMetrics(reg)
		observability.SetPipelineHooks(metrics)
		observability.SetCacheHooks(metrics)
		observability.SetHTTPHooks(metrics)
		defer observability.Reset()
	}

	srv := server.New(runner, st, server.Options{
		Addr:        opts.addr,
		CORSOrigins: opts.corsOrigins,
		Panel:       panel,
		Metrics:     metrics,
		Logger:      c.Logger,
	})
	return srv.ListenAndServe(ctx)
}

func (c *CLI) serverCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{URL: opts.redisURL, Prefix: appName + ":"})
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using redis cache")
		return rc, nil
	}

	mem := cache.NewMemoryCache()
	go func() {
		t := time.NewTicker(sweepInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := mem.Sweep(); n > 0 {
					c.Logger.Debug("swept cache", "expired", n, "remaining", mem.Len())
				}
			}
		}
	}()
	return mem, nil
}

func (c *CLI) serverStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	if opts.mongoURI == "" {
		c.Logger.Warn("snapshots are kept in memory; pass --mongo to persist them")
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(ctx, store.MongoOptions{URI: opts.mongoURI, Database: opts.mongoDB})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using mongodb snapshot store", "database", opts.mongoDB)
	return ms, nil
}
