package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"repodex/internal/classify"
	"repodex/internal/config"
	"repodex/internal/discovery"
	"repodex/internal/langcache"
	"repodex/internal/logging"
	"repodex/internal/rank"
	"repodex/internal/refresh"
	"repodex/internal/usage"
)

// app wires the stores and engines every command works against.
type app struct {
	cfg    *config.Config
	dir    string
	logger *slog.Logger
	langs  *langcache.Cache
	usage  *usage.Store
	disc   *discovery.Store
	engine *rank.Engine
	super  *refresh.Supervisor
}

// newApp loads the configuration and builds the full store stack. Flags
// override the configured log level and format.
func newApp() (*app, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logCfg := logging.Config{Format: cfg.Logging.Format, Level: cfg.Logging.Level}
	if logFormatFlag != "" {
		logCfg.Format = logFormatFlag
	}
	if logLevelFlag != "" {
		logCfg.Level = logLevelFlag
	}
	logger := logging.New(logCfg)

	classifier := classify.New(classify.Options{
		IgnoreDirs:            cfg.Classify.IgnoreDirs,
		FileBudget:            cfg.Classify.FileBudget,
		SignificanceThreshold: cfg.Classify.SignificanceThreshold,
	}, logger)

	langs := langcache.New(
		filepath.Join(dir, "languages.json"),
		classifier,
		langcache.Options{
			StaleAfter:       time.Duration(cfg.Classify.StaleAfterHours) * time.Hour,
			PersistBatchSize: cfg.Classify.PersistBatchSize,
		},
		logger,
	)
	usageStore := usage.New(filepath.Join(dir, "usage.json"), logger)

	backend := discovery.NewBackend(cfg.Discovery, logger)
	disc := discovery.NewStore(
		filepath.Join(dir, "discovery.json"),
		backend,
		cfg.SearchRoots,
		time.Duration(cfg.Discovery.SnapshotTTLSeconds)*time.Second,
		cfg.Icons,
		logger,
	)

	return &app{
		cfg:    cfg,
		dir:    dir,
		logger: logger,
		langs:  langs,
		usage:  usageStore,
		disc:   disc,
		engine: rank.New(langs, usageStore, logger),
		super:  refresh.New(disc, langs, usageStore, logger),
	}, nil
}
