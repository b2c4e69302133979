package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/og-image-service/internal/delivery/http/handler"
	"github.com/user/og-image-service/internal/delivery/http/router"
	"github.com/user/og-image-service/internal/delivery/http/server"
	"github.com/user/og-image-service/pkg/config"
	"github.com/user/og-image-service/pkg/logger"
	"github.com/user/og-image-service/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// --- Configuration ---
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	// --- Logger ---
	log, err := logger.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	defer log.Sync()

	// --- Metrics ---
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize dependencies", zap.Error(err))
		return withExitCode(ExitRuntimeError, err)
	}
	defer a.Close()

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(a.proxy, log, cfg.PlaceholderPath, cfg.MaxSVGBytes)
	httpRouter := router.New(apiHandler, log, router.Options{
		PlaceholderPath: cfg.PlaceholderPath,
		StaticDir:       cfg.StaticDir,
	})
	srv := server.New(cfg.ServerPort, httpRouter, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	log.Info("Server started",
		zap.String("port", cfg.ServerPort),
		zap.String("page_fetch_mode", cfg.PageFetchMode),
	)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Could not start server", zap.Error(err))
			return withExitCode(ExitRuntimeError, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return withExitCode(ExitRuntimeError, err)
	}
	log.Info("Server exiting")
	return nil
}
