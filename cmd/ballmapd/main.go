// Command ballmapd serves the ballmap HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/ballmap"
	"github.com/hupe1980/ballmap/catalog"
	"github.com/hupe1980/ballmap/codec"
	"github.com/hupe1980/ballmap/config"
	"github.com/hupe1980/ballmap/layerstore"
	"github.com/hupe1980/ballmap/prom"
	"github.com/hupe1980/ballmap/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintln(os.Stderr, "ballmapd:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	blobs, err := cfg.Storage.Open(ctx)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}

	c, ok := codec.ByName(cfg.Cache.Codec)
	if !ok {
		return fmt.Errorf("unknown codec %q", cfg.Cache.Codec)
	}

	rc := cfg.ResourceController()
	metrics := prom.NewCollector(prometheus.DefaultRegisterer)

	layers := layerstore.New(blobs, func(o *layerstore.Options) {
		o.CacheBytes = cfg.Cache.LayerBytes
		o.ResourceController = rc
	})
	cat := catalog.New(blobs, func(o *catalog.Options) {
		o.Codec = c
		o.CacheBytes = cfg.Cache.CatalogBytes
		o.ResourceController = rc
	})
	mapper := ballmap.New(
		ballmap.WithLogger(logger),
		ballmap.WithMetricsCollector(metrics),
		ballmap.WithWorkers(cfg.Mapper.Workers),
		ballmap.WithDefaultMaxOverlap(cfg.Mapper.MaxOverlap),
	)

	srv := server.New(mapper, layers, cat, func(o *server.Options) {
		o.RequestTimeout = cfg.Server.RequestTimeout
		o.CORSOrigins = cfg.Server.CORSOrigins
		o.Logger = logger
		o.Metrics = metrics
		o.Gatherer = prometheus.DefaultGatherer
		o.ResourceController = rc
		o.Codec = c
	})

	logger.Info("starting",
		"storage", cfg.Storage.Backend,
		"codec", c.Name(),
		"max_overlap", cfg.Mapper.MaxOverlap,
		"memory_limit_bytes", cfg.Resources.MemoryLimitBytes,
	)
	return srv.Run(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
}

func newLogger(cfg config.LogConfig) (*ballmap.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if cfg.Format == "text" {
		return ballmap.NewTextLogger(level), nil
	}
	return ballmap.NewJSONLogger(level), nil
}
