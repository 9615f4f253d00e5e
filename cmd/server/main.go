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

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/zono819/trading-sim/internal/adapter/push"
	"github.com/zono819/trading-sim/internal/adapter/rest"
	"github.com/zono819/trading-sim/internal/infrastructure/config"
	"github.com/zono819/trading-sim/internal/infrastructure/logger"
	"github.com/zono819/trading-sim/internal/usecase/executor"
	"github.com/zono819/trading-sim/internal/usecase/hub"
	"github.com/zono819/trading-sim/internal/usecase/store"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("trading-sim %s (built: %s)\n", version, buildTime)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Default().Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log)
	logger.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("Received signal: %v, initiating graceful shutdown...", sig)
		cancel()
	}()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server error: %v", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig) *logger.Logger {
	level := logger.ParseLevel(cfg.Level)
	if cfg.Format == "console" {
		return logger.NewConsole(level, os.Stdout)
	}
	return logger.New(level, os.Stdout)
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Info("Server is starting (version %s)", version)

	orders := store.New()
	subscribers := hub.New(log)
	exec := executor.New(orders, subscribers, log,
		cfg.Execution.MinDelay.Std(), cfg.Execution.MaxDelay.Std())

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if d := cfg.Server.RequestDelay.Std(); d > 0 {
		router.Use(rest.SimulateDelay(d))
	}

	rest.NewHandler(orders, exec, subscribers, log).Register(router)
	push.NewHandler(orders, subscribers, log, cfg.Push.SnapshotInterval.Std()).Register(router)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           corsMiddleware.Handler(router),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout.Std(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Server is shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
