// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"financetrack/internal/config"
	"financetrack/internal/logging"
)

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapterFromLogger(logrus.New())

	// Cfg holds the loaded configuration, populated before any subcommand runs
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "financetrack",
		Short: "A personal finance service that imports, deduplicates and categorizes bank transactions.",
		Long: `financetrack ingests bank statement CSV exports, skips duplicates, and
categorizes transactions with user-defined rules and an optional AI fallback.
It runs as an HTTP API (serve) or as one-shot commands (migrate, categorize).`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = logging.NewLogrusAdapterFromLogger(cfg.ConfigureLogging())
			return nil
		},
	}
)
