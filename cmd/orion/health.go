package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/orionhq/dashboard/internal/apiclient"
	"github.com/orionhq/dashboard/internal/logger"
)

func newHealthCmd() *cobra.Command {
	var (
		apiURL string
		debug  bool
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the Orion API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadUIConfig(cmd, apiURL)
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if debug {
				level = slog.LevelDebug
			}

			log := logger.NewLogger(cmd.ErrOrStderr(), level, cfg.Environment)
			resolver := apiclient.NewResolver(apiclient.Config{
				BaseAddress: cfg.APIURL,
				Timeout:     cfg.APITimeout,
				Logger:      log,
			})
			admin := apiclient.NewAdmin(resolver)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.APITimeout)
			defer cancel()

			if err := admin.Health(ctx); err != nil {
				var clientErr *apiclient.ClientError
				if errors.As(err, &clientErr) {
					return fmt.Errorf("%s (%w)", clientErr.UserError(), err)
				}
				return err
			}

			serverVersion, err := admin.Version(ctx)
			if err != nil {
				log.Debug("could not read server version", slog.String("error", err.Error()))
				serverVersion = "unknown"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Orion API at %s is healthy (server version %s)\n", resolver.BaseAddress(), serverVersion)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "Orion API base address (overrides ORION_UI_API_URL and ORION_HOST)")
	cmd.Flags().BoolVar(&debug, "debug", false, "log each API request")
	return cmd
}
