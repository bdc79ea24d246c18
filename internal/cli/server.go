package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/crime360/internal/app"
	"github.com/hyperjump/crime360/internal/server"
	"github.com/hyperjump/crime360/internal/watcher"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Long: `Load the configured seed, build the indexes and serve the HTTP API.

With seed.watch enabled the snapshot is rebuilt whenever the seed file or database
changes. POST /api/v1/admin/reload triggers the same rebuild by hand.`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := commandContext(cmd)
	rt, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}

	reload := func(ctx context.Context) (*app.Runtime, error) {
		return app.Build(ctx, cfg, logger)
	}
	srv := server.NewServer(rt, &cfg.Server, logger, server.WithReloader(reload))

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	if path := rt.Source.WatchPath(); cfg.Seed.Watch && path != "" {
		w := watcher.NewWatcher([]string{path}, func(changed string) {
			logger.Info("seed changed, reloading", zap.String("path", changed))
			if _, err := srv.Reload(watchCtx); err != nil {
				logger.Warn("watch reload failed", zap.Error(err))
			}
		}, watcher.WithLogger(logger))
		if err := w.Start(watchCtx); err != nil {
			logger.Warn("Failed to start seed watcher", zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
		logger.Info("Shutting down server...")
	case err := <-errCh:
		_ = srv.Stop(context.Background())
		return fmt.Errorf("server failed: %w", err)
	}

	timeout := time.Duration(cfg.Server.ShutdownTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
