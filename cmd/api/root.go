package main

import (
	"fmt"
	"os"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/config"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/logging"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "todo-ai",
	Short: "AI todo backend",
	Long: `REST backend for a todo list with AI subtask generation and translation.

Configuration comes from environment variables (see README) or a file named
by CONFIG_PATH. Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration and builds the process logger.
func loadConfig() (config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	log := logging.New(os.Stdout, cfg.Log.Format, cfg.Log.Level).
		With("service", "todo-ai", "env", cfg.App.Env, "version", cfg.App.Version)
	return cfg, log, nil
}
