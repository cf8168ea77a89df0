// Package server initializes and runs the catalog server.
// It selects the storage backend, runs migrations, wires the resolver
// with its notification channel, and serves the HTTP API until a
// shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/librarium/internal/logging"
	"github.com/dmitrijs2005/librarium/internal/server/config"
	"github.com/dmitrijs2005/librarium/internal/server/graph"
	"github.com/dmitrijs2005/librarium/internal/server/httpapi"
	"github.com/dmitrijs2005/librarium/internal/server/metrics"
	"github.com/dmitrijs2005/librarium/internal/server/pubsub"
	"github.com/dmitrijs2005/librarium/internal/server/repositories/repomanager"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var repos repomanager.RepositoryManager
	if cfg.InMemory {
		repos = repomanager.NewInMemoryRepositoryManager()
	} else {
		pg, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := pg.RunMigrations(ctx); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}
		repos = pg
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewPrometheusCollector(reg)

	resolver := graph.NewResolver(repos, pubsub.NewBroadcaster(), logger, collector, cfg)

	if cfg.InMemory {
		if err := seedFixtureUser(ctx, resolver); err != nil {
			return nil, fmt.Errorf("seed error: %w", err)
		}
		logger.Info(ctx, "in-memory store seeded", "username", "victor")
	}

	schema, err := graph.NewSchema(resolver)
	if err != nil {
		return nil, fmt.Errorf("schema error: %w", err)
	}

	server := httpapi.NewServer(cfg, logger, repos, schema, collector, reg)

	return &App{config: cfg, logger: logger, server: server}, nil
}

// seedFixtureUser creates the development account so a fresh in-memory
// server is immediately usable. The password is the configured default.
func seedFixtureUser(ctx context.Context, resolver *graph.Resolver) error {
	_, err := resolver.CreateUser(ctx, "victor", "refactoring")
	return err
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
