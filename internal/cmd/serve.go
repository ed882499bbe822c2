package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/s1tools/s1scan/internal/api"
)

var serveRoot string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the archive search as an HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveRoot, "root", "", "archive root directory (or S1SCAN_SERVER_ROOT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveRoot != "" {
		cfg.Server.Root = serveRoot
	}
	if cfg.Server.Root == "" {
		return fmt.Errorf("archive root is required: set --root or S1SCAN_SERVER_ROOT")
	}
	if info, err := os.Stat(cfg.Server.Root); err != nil || !info.IsDir() {
		return fmt.Errorf("archive root %q is not a directory", cfg.Server.Root)
	}

	logger := setupLogger(cfg.Logging.Level, cfg.Logging.Format)

	logger.Info("starting s1scan server",
		slog.String("root", cfg.Server.Root),
		slog.String("addr", cfg.Server.Address()),
	)

	handlers := api.NewHandlers(cfg, logger)
	router := api.NewRouter(handlers, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down server", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
