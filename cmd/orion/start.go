package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orionhq/dashboard/internal/logger"
	"github.com/orionhq/dashboard/internal/settings"
	"github.com/orionhq/dashboard/internal/ui/config"
	"github.com/orionhq/dashboard/internal/ui/server"
	"github.com/orionhq/dashboard/internal/version"
)

func newStartCmd() *cobra.Command {
	var (
		host   string
		port   int
		apiURL string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the dashboard UI server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadUIConfig(cmd, apiURL)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}

			serverLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
			serverLogger.Info("Starting UI server", slog.String("version", version.Get().Version))

			srv, err := server.NewServer(cfg, serverLogger)
			if err != nil {
				serverLogger.Error("Failed to create UI server", slog.String("error", err.Error()))
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(ctx); err != nil {
				serverLogger.Error("UI server error", slog.String("error", err.Error()))
				return err
			}

			serverLogger.Info("UI server shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "address to listen on (overrides ORION_UI_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides ORION_UI_PORT)")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "Orion API base address (overrides ORION_UI_API_URL and ORION_HOST)")
	return cmd
}

// loadUIConfig loads the orion settings and the UI config, applying the --api-url override.
func loadUIConfig(cmd *cobra.Command, apiURL string) (*config.Config, error) {
	orion, err := settings.Load()
	if err != nil {
		return nil, err
	}

	cfg, err := config.NewConfig(orion)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("api-url") {
		cfg.APIURL = apiURL
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return cfg, nil
}
