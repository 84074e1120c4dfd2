// Package app wires the AccountKeeper components together: configuration,
// logging, storage, the account service, the report exporter and the
// interactive console. It also runs the background sweep of expired
// sessions and handles graceful shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/cli"
	"github.com/dmitrijs2005/accountkeeper/internal/config"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/reports"
	"github.com/dmitrijs2005/accountkeeper/internal/storage"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	storage  storage.Manager
	accounts *accounts.Service
	console  *cli.App
}

func NewApp(cfg *config.Config) (*App, error) {
	// the console owns stdout, so logs go to stderr
	logger := logging.NewTextLogger(os.Stderr, slog.LevelInfo)

	sm, err := storage.NewManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	service := accounts.NewService(sm.Accounts(), sm.Sessions(), cfg)
	exporter := reports.NewExporter(cfg)
	console := cli.NewApp(service, exporter)

	return &App{
		config:   cfg,
		logger:   logger,
		storage:  sm,
		accounts: service,
		console:  console,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// startSessionSweeper periodically removes expired sessions until ctx is
// canceled.
func (app *App) startSessionSweeper(ctx context.Context) {
	ticker := time.NewTicker(app.config.SessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := app.accounts.PurgeExpiredSessions(ctx)
			if err != nil {
				app.logger.Error(ctx, "session sweep failed", "error", err.Error())
				continue
			}
			if n > 0 {
				app.logger.Debug(ctx, "session sweep", "removed", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Run migrates the storage backend, starts the session sweeper and hands the
// terminal over to the console. It returns when the user exits the console
// or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	if err := app.storage.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	defer func() {
		if err := app.storage.Close(); err != nil {
			app.logger.Error(ctx, "storage close failed", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startSessionSweeper(ctx)
	}()

	// The console blocks on stdin, so it runs in its own goroutine. On a
	// signal we stop waiting for it; the process is about to exit anyway.
	consoleDone := make(chan struct{})
	go func() {
		app.console.Run(ctx)
		close(consoleDone)
	}()

	select {
	case <-consoleDone:
	case <-ctx.Done():
	}

	cancelFunc()
	wg.Wait()
	return nil
}
