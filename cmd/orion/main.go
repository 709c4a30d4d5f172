package main

import (
	"os"

	"github.com/spf13/cobra"
	_ "golang.org/x/crypto/x509roots/fallback" // CA roots for minimal container images with no system trust store

	"github.com/orionhq/dashboard/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "orion",
		Short:        "Orion dashboard",
		Long:         `Serves the Orion dashboard and manages the local Orion settings`,
		SilenceUsage: true,
		Version:      version.Get().String(),
	}

	cmd.AddCommand(
		newStartCmd(),
		newHealthCmd(),
		newConfigCmd(),
	)
	return cmd
}
