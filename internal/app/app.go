package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/hangrelay/internal/config"
	"github.com/vovakirdan/hangrelay/internal/core"
	"github.com/vovakirdan/hangrelay/internal/store"
	"github.com/vovakirdan/hangrelay/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/hangrelay/internal/transport/http"
)

const shutdownReason = "server shutting down"

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	managers        transporthttp.Managers
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	managers := NewManagers(cfg, st, logger)
	server := transporthttp.NewServer(managers, st, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		managers:        managers,
		store:           st,
		log:             logger,
	}, nil
}

// NewManagers builds the community and work relays from configuration.
func NewManagers(cfg *config.Config, st store.ActivityStore, logger *zerolog.Logger) transporthttp.Managers {
	policy := core.NewContextPolicy(workContexts(cfg.WorkContexts))

	return transporthttp.Managers{
		Community: core.NewManager(core.Options{
			Name:          "community",
			ExcludeSender: cfg.ExcludeSender,
			Activity:      st,
		}, logger),
		Work: core.NewManager(core.Options{
			Name:          "work",
			Policy:        policy,
			Notices:       core.WorkNotices{Policy: policy},
			Roster:        true,
			ExcludeSender: cfg.ExcludeSender,
			Activity:      st,
		}, logger),
		Contexts: policy,
	}
}

func openStore(cfg *config.Config, logger *zerolog.Logger) (store.Store, error) {
	if cfg.DatabasePath == "" {
		logger.Info().Msg("no database configured, activity log disabled")
		return store.Nop{}, nil
	}

	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")
	return st, nil
}

func workContexts(in []config.WorkContext) []core.WorkContext {
	if len(in) == 0 {
		return core.DefaultWorkContexts()
	}
	out := make([]core.WorkContext, 0, len(in))
	for _, c := range in {
		out = append(out, core.WorkContext{Key: c.Key, Label: c.Label, Description: c.Description})
	}
	return out
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		// Hijacked WebSocket connections are not tracked by Shutdown.
		a.managers.Community.Close(shutdownReason)
		a.managers.Work.Close(shutdownReason)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
