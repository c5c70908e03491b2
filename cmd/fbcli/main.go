// Package main implements fbcli, a command-line client for Facebook
// Marketplace and Messenger driven through a headless Chrome session.
//
// Results are written to stdout as JSON (default), markdown, a table or
// terminal-rendered markdown. Logs go to stderr.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fbcli/internal/config"
	"fbcli/internal/logging"
	"fbcli/internal/render"
	"fbcli/internal/types"
)

const version = "1.0.0"

var (
	// Global flags
	configPath string
	verbose    bool
	headed     bool
	formatFlag string

	// Loaded by PersistentPreRunE
	cfg    *config.Config
	format render.Format
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "fbcli",
	Short: "CLI tool for Facebook Marketplace and Messenger",
	Long: `fbcli drives a real Chrome session to search Marketplace listings and to
read and send Messenger conversations.

Credentials are read from FACEBOOK_EMAIL and FACEBOOK_PASSWORD (a .env file in
the working directory is honoured). Cookies are kept between runs so the login
form is only used when the saved session has expired.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&headed, "headed", false, "Show the browser window")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", string(render.FormatJSON),
		"Output format: "+strings.Join(formatNames(), ", "))

	registerMarketplaceCommands()
	registerMessageCommands()
	registerSessionCommands()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// setup loads configuration and installs the logger for this run.
func setup() error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		loaded.Logging.Level = "debug"
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	f, err := render.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	if err := logging.Initialize(logging.Options{
		Level:  loaded.Logging.Level,
		Format: loaded.Logging.Format,
		Fields: []zap.Field{zap.String("run_id", uuid.NewString())},
	}); err != nil {
		return err
	}

	cfg = loaded
	format = f
	logging.Get(logging.CategoryBoot).Debug("config loaded from %s, session %s", configPath, cfg.SessionPath())
	return nil
}

// reportError prints err and its kind on stderr.
func reportError(err error) {
	msg := err.Error()
	if kind := types.KindOf(err); kind != "Error" {
		msg = fmt.Sprintf("%s (%s)", msg, kind)
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+msg))
	if errors.Is(err, types.ErrChallengeRequired) {
		fmt.Fprintln(os.Stderr, "Run the command again with --headed and complete the check in the browser window.")
	}
}

func formatNames() []string {
	names := make([]string, 0, len(render.Formats))
	for _, f := range render.Formats {
		names = append(names, string(f))
	}
	return names
}
