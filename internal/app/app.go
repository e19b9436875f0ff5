// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/harvest/internal/config"
	"github.com/law-makers/harvest/internal/downloader"
	"github.com/law-makers/harvest/internal/extract"
	"github.com/law-makers/harvest/internal/fetch"
	"github.com/law-makers/harvest/internal/harvest"
	"github.com/law-makers/harvest/internal/listing"
	"github.com/law-makers/harvest/internal/pipeline"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to release pooled connections on shutdown.
type Application struct {
	Config     *config.Config
	Logger     *zerolog.Logger
	HTTPClient *http.Client
	Fetcher    *fetch.Fetcher
	Extractor  *extract.Extractor
	Downloads  *downloader.WorkerPool
	Harvester  *harvest.Harvester
	Enumerator *listing.Enumerator
	startTime  time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures global logging from the config
//   - Builds the shared HTTP client and fetcher
//   - Creates the link extractor, download pool, harvester and enumerator
//
// If any step fails, an error is returned and no resources are allocated.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := SetupLogging(cfg, os.Stderr)

	httpClient, err := fetch.NewClient(cfg.HTTPTimeout, cfg.Proxies)
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}
	fetcher := fetch.New(httpClient, cfg.UserAgent, cfg.Headers)
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Int("proxies", len(cfg.Proxies)).
		Msg("HTTP client initialized")

	extractor, err := extract.New(fetcher, cfg.DocumentExtensions, cfg.PortalHost)
	if err != nil {
		return nil, fmt.Errorf("link extractor: %w", err)
	}

	downloads := downloader.NewWorkerPool(downloader.NewDownloader(fetcher), cfg.DocumentConcurrency)

	harvester := harvest.New(fetcher, extractor, downloads, harvest.Options{
		BaseURL:   cfg.BaseURL,
		OutputDir: cfg.OutputDir,
		Markdown:  cfg.Markdown,
	})

	enumerator := listing.New(fetcher, cfg.BaseURL, cfg.MaxListingPages)

	logger.Debug().
		Str("base_url", cfg.BaseURL).
		Str("output", cfg.OutputDir).
		Int("document_workers", downloads.Concurrency()).
		Msg("Application initialized")

	return &Application{
		Config:     cfg,
		Logger:     &logger,
		HTTPClient: httpClient,
		Fetcher:    fetcher,
		Extractor:  extractor,
		Downloads:  downloads,
		Harvester:  harvester,
		Enumerator: enumerator,
		startTime:  time.Now(),
	}, nil
}

// Pipeline builds a run orchestrator; observer may be nil
func (a *Application) Pipeline(observer pipeline.Observer) *pipeline.Pipeline {
	return pipeline.New(a.Fetcher, a.Enumerator, a.Harvester, pipeline.Options{
		BaseURL:                a.Config.BaseURL,
		MenuSelector:           a.Config.MenuSelector,
		SubcategoryConcurrency: a.Config.SubcategoryConcurrency,
		PageConcurrency:        a.Config.PageConcurrency,
		Observer:               observer,
	})
}

// SetupLogging configures the global zerolog logger and returns it. Console
// output is used unless JSON logs were requested; a progress bar lowers
// console verbosity to warnings so the two do not interleave.
func SetupLogging(cfg *config.Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.Progress && !cfg.JSONLog && level < zerolog.WarnLevel {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.JSONLog {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	}
	return log.Logger
}

// Close releases pooled connections. It never fails; the error return
// matches the shutdown hooks that call it.
func (a *Application) Close(ctx context.Context) error {
	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
