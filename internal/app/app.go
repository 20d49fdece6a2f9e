// Package app wires configuration, storage and the study service together.
package app

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/abhisek/recall/internal/analytics"
	"github.com/abhisek/recall/internal/config"
	"github.com/abhisek/recall/internal/scheduler"
	"github.com/abhisek/recall/internal/store"
	"github.com/abhisek/recall/internal/study"
)

// App is a fully wired recall instance.
type App struct {
	Config  config.Config
	Store   *store.Store
	Service *study.Service
	Logger  *slog.Logger
}

// NewLogger builds the text logger used by the CLI.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// New opens the database named by cfg.DBPath (or the default path) and
// builds the study service.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, errors.Wrap(err, "resolve database path")
		}
		dbPath = p
	} else if err := store.EnsureDir(dbPath); err != nil {
		return nil, errors.Wrap(err, "create database directory")
	}

	st, err := store.Open(dbPath, store.WithLogger(logger))
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}

	svc, err := newService(cfg, st, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	logger.Debug("recall ready",
		"db", dbPath,
		"strategy", cfg.Scheduler.Strategy,
		"queue_mode", cfg.Queue.Mode,
	)
	return &App{Config: cfg, Store: st, Service: svc, Logger: logger}, nil
}

func newService(cfg config.Config, st *store.Store, logger *slog.Logger) (*study.Service, error) {
	sched, err := scheduler.New(cfg.Scheduler.Build(logger))
	if err != nil {
		return nil, errors.Wrap(err, "build scheduler")
	}
	pred, err := analytics.NewPredictor(cfg.Predict.Build(cfg.Scheduler, logger))
	if err != nil {
		return nil, errors.Wrap(err, "build predictor")
	}
	return study.NewService(study.Config{
		Decks:     st.Decks(),
		Cards:     st.Cards(),
		Reviews:   st.Reviews(),
		Scheduler: sched,
		Queue:     cfg.Queue.Prioritizer(),
		Predictor: pred,
		Logger:    logger,
	})
}

// Close releases the database.
func (a *App) Close() error {
	return a.Store.Close()
}
