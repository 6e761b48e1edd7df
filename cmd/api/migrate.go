package main

import (
	"context"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/repo"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or inspect database migrations",
	Long:      `Runs the embedded migrations for the configured DB_DRIVER. "down" rolls back one version.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{repo.MigrateUp, repo.MigrateDown, repo.MigrateStatus},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := repo.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx, args[0], log); err != nil {
		return err
	}
	log.Info(ctx, "migrate finished", "command", args[0], "driver", cfg.DB.Driver)
	return nil
}
