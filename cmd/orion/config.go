package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/orionhq/dashboard/internal/settings"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and change Orion settings",
	}

	cmd.AddCommand(
		newConfigViewCmd(),
		newConfigSetCmd(),
		newConfigUnsetCmd(),
	)
	return cmd
}

func newConfigViewCmd() *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load()
			if err != nil {
				return err
			}

			var rows [][]string
			for _, e := range s.Entries(showSecrets) {
				rows = append(rows, []string{e.Key, e.Value})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "profile: %s\n", settings.ProfilePath(s.Home))

			table := tablewriter.NewWriter(out)
			table.Header([]string{"Setting", "Value"})
			if err := table.Bulk(rows); err != nil {
				return fmt.Errorf("failed to render settings: %w", err)
			}
			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render settings: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show secret values instead of masking them")
	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set KEY=VALUE...",
		Short:   "Store settings in the profile",
		Example: "  orion config set ORION_HOST=http://127.0.0.1:4300/api ORION_API_DEFAULT_LIMIT=100",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make(map[string]string, len(args))
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok || key == "" {
					return fmt.Errorf("invalid setting %q, expected KEY=VALUE", arg)
				}
				values[key] = value
			}

			path, err := profilePath()
			if err != nil {
				return err
			}
			if err := settings.SetProfileValues(path, values); err != nil {
				return err
			}

			for _, arg := range args {
				key, _, _ := strings.Cut(arg, "=")
				fmt.Fprintf(cmd.OutOrStdout(), "set %s\n", key)
			}
			return nil
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY...",
		Short: "Remove settings from the profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := profilePath()
			if err != nil {
				return err
			}
			if err := settings.UnsetProfileValues(path, args); err != nil {
				return err
			}

			for _, key := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "unset %s\n", key)
			}
			return nil
		},
	}
}

func profilePath() (string, error) {
	home, err := settings.ResolveHome(os.Environ())
	if err != nil {
		return "", err
	}
	return settings.ProfilePath(home), nil
}
