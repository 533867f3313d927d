package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"browsetree/internal/app"
	"browsetree/internal/config"
	"browsetree/internal/logging"
)

var (
	configPath string
	dataDir    string
	logLevel   string
	ephemeral  bool

	cfg    *config.Config
	logger *logging.Logger
	stores *app.App
)

var rootCmd = &cobra.Command{
	Use:   "browsetree-cli",
	Short: "CLI for browsing trees and link scores",
	Long: `browsetree-cli inspects and maintains the browsing trees recorded
while navigating the web: every tab is a tree of page visits carrying
reading events and per-link engagement scores.

It provides commands to list, show, export, import, replay, validate and
delete trees, and to rank links by clustering or eviction score.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		logger, err = logging.New(app.LoggingConfig(cfg, "cli"))
		if err != nil {
			return err
		}

		// validate works on files only
		if cmd.Annotations["stores"] == "none" {
			return nil
		}
		stores, err = app.Open(cfg, logger.Logger, app.Options{Ephemeral: ephemeral})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeAll()
	},
}

func closeAll() error {
	var err error
	if stores != nil {
		err = stores.Close()
		stores = nil
	}
	if logger != nil {
		logger.Close()
		logger = nil
	}
	return err
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_ = closeAll()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "path to the config file")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "override the data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep every store in memory for this run")
}

// GetApp returns the opened stores
func GetApp() *app.App {
	return stores
}
