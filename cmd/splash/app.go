package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mmcdole/splash/internal/browser"
	"github.com/mmcdole/splash/internal/config"
	"github.com/mmcdole/splash/internal/domain"
	"github.com/mmcdole/splash/internal/gallery"
	"github.com/mmcdole/splash/internal/log"
	"github.com/mmcdole/splash/internal/photo"
	"github.com/mmcdole/splash/internal/store"
	"github.com/mmcdole/splash/internal/unsplash"
)

// app holds the wired dependencies shared by all commands
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	client   *unsplash.Client
	store    *store.PhotoStore
	photos   *photo.Service
	queries  *photo.Queries
	feed     *gallery.Controller[*domain.Photo]
	launcher *browser.Launcher

	logFile io.Closer
}

// loadConfig reads and validates configuration and sets up the file logger
func loadConfig(opts *globalOptions) (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, closer, err := log.Setup(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, closer = log.Null(), nil
	}
	slog.SetDefault(logger)

	return cfg, logger, closer, nil
}

// newApp wires the API client, store and services from configuration
func newApp(opts *globalOptions) (*app, error) {
	cfg, logger, closer, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	cacheDir, err := log.ExpandHome(cfg.Cache.Dir)
	if err != nil {
		closeLog(closer)
		return nil, err
	}

	st, err := store.NewPhotoStore(cacheDir, cfg.API.BaseURL)
	if err != nil {
		// Another instance may hold the database lock
		logger.Warn("photo cache unavailable, using memory", "dir", cacheDir, "error", err)
		st, _ = store.NewPhotoStore("", cfg.API.BaseURL)
	}

	client := unsplash.NewClient(unsplash.Options{
		BaseURL:     cfg.API.BaseURL,
		AccessKey:   cfg.API.AccessKey,
		Timeout:     cfg.API.Timeout,
		MinInterval: cfg.API.MinInterval,
		Burst:       cfg.API.Burst,
	}, logger)

	photos := photo.NewService(client, st, cfg.Cache.MaxAge, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		client:   client,
		store:    st,
		photos:   photos,
		queries:  photo.NewQueries(st),
		feed:     gallery.NewController[*domain.Photo](photos, cfg.API.PageSize, logger),
		launcher: browser.NewLauncher(cfg.Browser.Command, cfg.Browser.Args, logger),
		logFile:  closer,
	}, nil
}

// Close releases the store and the log file
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close photo cache", "error", err)
	}
	closeLog(a.logFile)
}

func closeLog(c io.Closer) {
	if c != nil {
		c.Close()
	}
}
