package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/shotpro/internal/api"
	"github.com/thesavant42/shotpro/internal/capture"
	"github.com/thesavant42/shotpro/internal/config"
	"github.com/thesavant42/shotpro/internal/db"
	"github.com/thesavant42/shotpro/internal/history"
	"github.com/thesavant42/shotpro/internal/logging"
	"github.com/thesavant42/shotpro/internal/recent"
	"github.com/thesavant42/shotpro/internal/settings"
)

var errUsage = errors.New("unknown command")

// app wires the client core for one invocation
type app struct {
	cfg       config.Config
	logger    *log.Logger
	logCloser io.Closer
	db        *db.DB
	client    *api.Client
	recent    *recent.List
	history   *history.Cache
	settings  *settings.Store
	capture   *capture.Controller
}

func newApp(cfg config.Config) (*app, error) {
	logger, closer, err := logging.New(logging.Options{
		Path:   logging.PathFor(cfg.DBPath),
		Level:  cfg.LogLevel,
		Prefix: "shotpro",
	})
	if err != nil {
		return nil, err
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	client := api.NewClient(cfg.APIURL, cfg.HTTPTimeout, logger)

	recentURLs := recent.New(database, logger)
	if err := recentURLs.Load(); err != nil {
		logger.Warn("Recent urls unavailable", "error", err)
	}

	cache := history.New(client, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		logCloser: closer,
		db:        database,
		client:    client,
		recent:    recentURLs,
		history:   cache,
		settings:  settings.New(client, logger),
		capture: capture.NewController(client, capture.Options{
			Recent:       recentURLs,
			History:      cache,
			HistoryLimit: history.DefaultLimit,
			Downloads:    database,
			PollInterval: cfg.PollInterval,
			Logger:       logger,
		}),
	}, nil
}

// Close releases the database and log file
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn("Failed to close database", "error", err)
	}
	a.logCloser.Close()
}

// sink picks object storage when configured, else dir (or the configured download dir)
func (a *app) sink(ctx context.Context, dir string) (capture.Sink, error) {
	if a.cfg.MinIO.Enabled() && dir == "" {
		s, err := capture.NewMinIOSink(capture.MinIOConfig{
			Endpoint:  a.cfg.MinIO.Endpoint,
			AccessKey: a.cfg.MinIO.AccessKey,
			SecretKey: a.cfg.MinIO.SecretKey,
			Bucket:    a.cfg.MinIO.Bucket,
			UseSSL:    a.cfg.MinIO.UseSSL,
			Prefix:    "screenshots",
		}, a.logger)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	}
	if dir == "" {
		dir = a.cfg.DownloadDir
	}
	return capture.FileSink{Dir: dir}, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "capture":
		return a.runCapture(ctx, args, false)
	case "capture-async":
		return a.runCapture(ctx, args, true)
	case "history":
		return a.runHistory(ctx, args)
	case "delete":
		return a.runDelete(ctx, args)
	case "clear":
		return a.runClear(ctx, args)
	case "download":
		return a.runDownload(ctx, args)
	case "downloads":
		return a.runDownloads(args)
	case "settings":
		return a.runSettings(ctx, args)
	case "browsers":
		return a.runBrowsers(ctx)
	case "stats":
		return a.runStats(ctx)
	case "health":
		return a.runHealth(ctx)
	case "recent":
		return a.runRecent()
	case "backup":
		return a.runBackup(args)
	case "tui":
		return a.runTUI(ctx)
	}
	return errUsage
}
