// Package main is the ScholarSync command line entry point. Run without
// arguments it launches the terminal UI; subcommands expose one-shot search
// and citation lookups plus the bundled development backend.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/scholarsync/scholarsync/internal/api"
	"github.com/scholarsync/scholarsync/internal/config"
	"github.com/scholarsync/scholarsync/internal/identity"
	"github.com/scholarsync/scholarsync/internal/mutation"
	"github.com/scholarsync/scholarsync/internal/observability"
	"github.com/scholarsync/scholarsync/internal/refresh"
	"github.com/scholarsync/scholarsync/internal/session"
	"github.com/scholarsync/scholarsync/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "scholarsync",
	Short: "ScholarSync - your research papers, organized",
	Long: `ScholarSync is a terminal client for searching academic papers,
saving them into reading lists, and generating citations.

Run without arguments to start the interactive interface.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadEnv loads configuration and builds the logger every command shares.
func loadEnv(component string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", component).Logger()
	return cfg, logger, nil
}

// newBackend builds the backend API client from configuration.
func newBackend(cfg *config.Config, logger zerolog.Logger) *api.Client {
	return api.NewClient(api.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		RateLimit: cfg.Backend.RateLimit,
		BurstSize: cfg.Backend.BurstSize,
		UserAgent: cfg.Backend.UserAgent,
	}, logger)
}

func runTUI() error {
	cfg, logger, err := loadEnv("tui")
	if err != nil {
		return err
	}
	logger.Info().Msg("scholarsync starting")

	backend := newBackend(cfg, logger)

	provider := identity.NewProvider(identity.Config{
		BaseURL: cfg.Identity.BaseURL,
		Timeout: cfg.Identity.Timeout,
		APIKey:  cfg.Identity.APIKey,
	}, logger)

	store := session.NewStore(provider)
	defer store.Close()

	bus := refresh.NewBus()
	dispatcher := mutation.NewDispatcher(backend, bus, logger)

	app := tui.NewApp(tui.Deps{
		Config:   cfg,
		Logger:   logger,
		Backend:  backend,
		Identity: provider,
		Session:  store,
		Dispatch: dispatcher,
		Bus:      bus,
	})
	defer app.Close()

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	logger.Info().Msg("scholarsync exiting")
	return nil
}
