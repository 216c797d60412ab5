package commands

import (
	"fmt"

	"github.com/dcwatch/dcwatch/internal/external/yahoo"
	"github.com/dcwatch/dcwatch/internal/ingest"
	"github.com/dcwatch/dcwatch/internal/prices"
	"github.com/dcwatch/dcwatch/pkg/config"
	"github.com/dcwatch/dcwatch/pkg/httputil"
	"github.com/dcwatch/dcwatch/pkg/logger"
)

// app bundles the shared pieces every command starts from.
type app struct {
	cfg    *config.Config
	logger *logger.Logger
	loader *ingest.Loader
	writer *ingest.Writer
}

// newApp loads config, applies global flags, and builds the data-dir IO.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	writer, err := ingest.NewWriter(cfg.DataDir, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: log,
		loader: ingest.NewLoader(cfg.DataDir, log),
		writer: writer,
	}, nil
}

// newResolver builds the price resolver: rate-limited HTTP client, chart
// source, and the per-ticker file cache.
func (a *app) newResolver() (*prices.Resolver, error) {
	httpClient := httputil.New(a.logger, a.cfg.Prices.Timeout).
		WithRequestDelay(a.cfg.Prices.RequestDelay)

	source := yahoo.NewClient(httpClient, a.logger, a.cfg.Prices.BaseURL)

	cache, err := prices.NewFileCache(a.cfg.CacheDir, a.logger)
	if err != nil {
		return nil, err
	}

	return prices.NewResolver(source, cache, a.logger), nil
}
