package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/diagramkit/internal/api"
	"github.com/matzehuels/diagramkit/internal/metrics"
	"github.com/matzehuels/diagramkit/pkg/config"
	"github.com/matzehuels/diagramkit/pkg/observability"
	"github.com/matzehuels/diagramkit/pkg/storage"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		port      int
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the composition pipeline over HTTP.

Routes:
  POST   /v1/validate                 validate a model
  POST   /v1/compose                  compose and render a model, optionally saving it
  GET    /v1/diagrams                 list saved diagrams
  GET    /v1/diagrams/{id}            fetch a saved diagram
  GET    /v1/diagrams/{id}/{format}   render a saved diagram
  DELETE /v1/diagrams/{id}            delete a saved diagram
  GET    /metrics                     Prometheus metrics

Saved diagrams live in memory or MongoDB (storage.backend in the config).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *c.config()
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return c.runServe(cmd.Context(), &cfg, noCache, !noMetrics)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config, 8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

// runServe runs the API until ctx is cancelled, then shuts down gracefully.
func (c *CLI) runServe(ctx context.Context, cfg *config.Config, noCache, withMetrics bool) error {
	defaults, err := cfg.PipelineOptions()
	if err != nil {
		return err
	}

	store, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			c.Logger.Warn("close storage", "err", err)
		}
	}()

	c.cfg = cfg
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var metricsHandler http.Handler
	if withMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics.New(reg).Register()
		defer observability.Reset()
		metricsHandler = metrics.Handler(reg)
	}

	srv := api.New(api.Options{
		Runner:       runner,
		Store:        store,
		Defaults:     defaults,
		Logger:       c.Logger,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Metrics:      metricsHandler,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.Logger.Info("Starting HTTP server", "address", httpServer.Addr, "storage", cfg.Storage.Backend, "cache", cfg.Cache.Backend)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		c.Logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			c.Logger.Error("HTTP server shutdown error", "err", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	c.Logger.Info("Server stopped")
	return nil
}

func newStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	if cfg.Backend == config.StorageMongo {
		return storage.NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
	}
	return storage.NewMemoryStore(), nil
}
