package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fbcli/internal/config"
	"fbcli/internal/logging"
	"fbcli/internal/types"
)

// =============================================================================
// SESSION AND CONFIG COMMANDS
// =============================================================================

var forceInit bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the saved session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Writes the default configuration to --config. Credentials are never
written; keep them in FACEBOOK_EMAIL, FACEBOOK_PASSWORD and FACEBOOK_PIN.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func registerSessionCommands() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(configCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	err := withApp(func(ctx context.Context, a *app) error {
		if _, err := a.mgr.Launch(ctx); err != nil {
			return fmt.Errorf("launch browser: %w", err)
		}
		a.auth.Logout(ctx)
		return nil
	})
	if err != nil {
		return err
	}

	// Close saved the logged-out jar; drop it so the next run starts clean.
	if err := os.Remove(cfg.SessionPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	logging.Get(logging.CategorySession).Info("session cleared: %s", cfg.SessionPath())
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !forceInit {
		return fmt.Errorf("%w: %s already exists (use --force to overwrite)", types.ErrInvalidInput, configPath)
	}
	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	return nil
}
