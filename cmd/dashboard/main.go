package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/OldStager01/bikeshare-dashboard/api"
	"github.com/OldStager01/bikeshare-dashboard/internal/dashboard"
	"github.com/OldStager01/bikeshare-dashboard/internal/events"
	"github.com/OldStager01/bikeshare-dashboard/internal/logger"
	"github.com/OldStager01/bikeshare-dashboard/internal/metrics"
	"github.com/OldStager01/bikeshare-dashboard/internal/session"
	"github.com/OldStager01/bikeshare-dashboard/pkg/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	envFile := flag.String("env", ".env", "optional dotenv file with BIKESHARE_* overrides")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	sess, err := session.New(cfg.Data)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	store := session.NewStore(sess)
	defer store.Close()

	bus := events.NewEventBus(cfg.Events.BufferSize)
	defer bus.Close()

	eventLogger := events.NewEventLogger(bus.SubscribeAll())
	eventLogger.Start()
	defer eventLogger.Stop()

	publisher := events.NewPublisher(bus)
	publisher.DatasetLoaded(sess.Name(), sess.Info())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Prometheus.Enabled {
		metrics.StartServer(ctx, cfg.Prometheus.Port)
	}

	if cfg.Data.Watch {
		watcher, err := session.NewWatcher(cfg.Data, store, publisher)
		if err != nil {
			return fmt.Errorf("failed to watch dataset: %w", err)
		}
		defer watcher.Close()

		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.WithError(err).Error("Dataset watcher stopped")
			}
		}()
		logger.Info("Watching dataset files for changes")
	}

	builder := dashboard.NewBuilder(store, cfg.Segmentation.ToKMeans(), publisher)
	server := api.NewServer(cfg.API, &cfg.WebSocket, cfg.App.Mode, api.Dependencies{
		Store:   store,
		Builder: builder,
		Events:  bus,
	})

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("Dashboard listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	timeout := cfg.App.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}
