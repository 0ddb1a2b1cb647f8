package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daygrid/daygrid/pkg/cache"
	"github.com/daygrid/daygrid/pkg/config"
	"github.com/daygrid/daygrid/pkg/pipeline"
	"github.com/daygrid/daygrid/pkg/server"
	"github.com/daygrid/daygrid/pkg/store"
	mongostore "github.com/daygrid/daygrid/pkg/store/mongo"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		listen     string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daygrid HTTP server",
		Long: `Run the daygrid HTTP server.

The server exposes configured ICS feeds over HTTP, computes layouts and
rendered grids on demand, and publishes layout snapshots when a snapshot
store is configured. Feeds, cache backend, snapshot store, and the refresh
schedule come from the config file (created with defaults on first run).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, listen, noCache)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "daygrid.yaml", "config file path")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe loads the config, wires backends, and serves until cancelled.
func (c *CLI) runServe(ctx context.Context, configPath, listen string, noCache bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", configPath, err)
	}
	if listen != "" {
		cfg.Listen = listen
	}

	cacheBackend, err := c.serveCache(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cacheBackend, nil, c.Logger)
	defer runner.Close()

	snaps, err := c.serveStore(ctx, cfg)
	if err != nil {
		return err
	}
	if snaps != nil {
		defer snaps.Close(context.Background())
	}

	srv := server.New(cfg, runner, snaps, c.Logger)

	c.Logger.Info("starting server", "listen", cfg.Listen, "feeds", len(cfg.Feeds))
	return srv.ListenAndServe(ctx)
}

// serveCache picks the cache backend: redis when configured, else local files.
func (c *CLI) serveCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Redis != nil {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		c.Logger.Info("using redis cache", "addr", cfg.Redis.Addr)
		return rc, nil
	}
	return newCache(false)
}

// serveStore opens the snapshot store when one is configured.
func (c *CLI) serveStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Mongo == nil {
		return nil, nil
	}
	st, err := mongostore.NewStore(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	c.Logger.Info("using mongo snapshot store", "database", cfg.Mongo.Database)
	return st, nil
}
