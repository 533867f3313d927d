// Package app wires the stores and the browsing environment shared by the
// browsetree binaries.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"browsetree/internal/adapters/badger"
	"browsetree/internal/adapters/clock"
	"browsetree/internal/adapters/filesystem"
	"browsetree/internal/adapters/memory"
	"browsetree/internal/adapters/sqlite"
	"browsetree/internal/browsing"
	"browsetree/internal/config"
	"browsetree/internal/logging"
	"browsetree/internal/ports"
)

// Options alter how the stores are opened
type Options struct {
	// Ephemeral keeps every store in memory and writes nothing to disk
	Ephemeral bool
}

// App holds the opened stores and the environment trees report to
type App struct {
	Trees  ports.TreeRepository
	Links  ports.LinkStore
	Env    browsing.Env
	Clock  ports.Clock
	Logger *slog.Logger

	closers []func() error
}

// LoggingConfig maps the logging section of cfg for a binary
func LoggingConfig(cfg *config.Config, component string) logging.Config {
	return logging.Config{
		Level:     cfg.Logging.Level,
		Format:    logging.Format(cfg.Logging.Format),
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		Component: component,
	}
}

// Open opens the link, score and tree stores described by cfg
func Open(cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	halfLife := time.Duration(cfg.Engine.FrecencyHalfLifeDays * float64(24*time.Hour))
	sys := clock.System{}

	a := &App{Clock: sys, Logger: logger}
	env := browsing.Env{
		Clock:    sys,
		Sessions: browsing.NewSessionnizer(sys, time.Duration(cfg.Engine.SessionDurationSeconds)*time.Second),
		Logger:   logger,
	}

	if opts.Ephemeral {
		links := memory.NewLinkStore()
		a.Trees = memory.NewTreeRepository()
		a.Links = links
		env.Links = links
		env.Frecency = memory.NewFrecency(halfLife)
		env.DailyScores = memory.NewDailyScores()
		env.TreeStats = memory.NewTreeStats()
		a.Env = env
		logger.Debug("opened ephemeral stores")
		return a, nil
	}

	dataDir := cfg.DataDirPath()
	store := sqlite.NewStore(logger, halfLife)
	if err := store.Open(dataDir); err != nil {
		return nil, fmt.Errorf("open link store: %w", err)
	}
	a.closers = append(a.closers, store.Close)
	a.Links = store
	env.Links = store
	env.Frecency = store
	env.DailyScores = store
	env.TreeStats = store

	trees, err := openTrees(cfg, dataDir, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.closers = append(a.closers, trees.Close)
	a.Trees = trees
	a.Env = env

	logger.Debug("opened stores", "data_dir", dataDir, "tree_store", cfg.TreeStore, "db", store.Path())
	return a, nil
}

func openTrees(cfg *config.Config, dataDir string, logger *slog.Logger) (ports.TreeRepository, error) {
	switch cfg.TreeStore {
	case config.TreeStoreFilesystem:
		repo, err := filesystem.NewRepository(dataDir, logger)
		if err != nil {
			return nil, fmt.Errorf("open tree directory: %w", err)
		}
		return repo, nil
	case config.TreeStoreBadger, "":
		bcfg := badger.DefaultConfig(filepath.Join(dataDir, "trees.badger"))
		bcfg.Logger = logger
		repo, err := badger.Open(bcfg)
		if err != nil {
			return nil, fmt.Errorf("open tree database: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown tree store %q", cfg.TreeStore)
	}
}

// Close closes the stores in reverse opening order
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
