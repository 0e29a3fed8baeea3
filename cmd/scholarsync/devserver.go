package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scholarsync/scholarsync/internal/devserver"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run the bundled development backend",
	Long: `Starts an in-memory backend speaking the same API the client expects,
including the identity endpoints, so the interface can run against localhost
without any external services.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDevServer()
	},
}

func init() {
	rootCmd.AddCommand(devserverCmd)
}

func runDevServer() error {
	cfg, logger, err := loadEnv("devserver")
	if err != nil {
		return err
	}

	srv := devserver.NewServer(devserver.Config{
		Address:         cfg.DevServer.Address(),
		ReadTimeout:     cfg.DevServer.ReadTimeout,
		WriteTimeout:    cfg.DevServer.WriteTimeout,
		ShutdownTimeout: cfg.DevServer.ShutdownTimeout,
		MetricsEnabled:  cfg.DevServer.MetricsEnabled,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("dev server: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.DevServer.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown dev server: %w", err)
	}

	logger.Info().Msg("dev server stopped")
	return nil
}
