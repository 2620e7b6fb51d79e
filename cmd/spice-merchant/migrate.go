package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-merchant/internal/cli"
	"github.com/Veraticus/spice-merchant/internal/config"
)

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the merchant directory schema to the latest version.

Every command migrates on startup; this command only does that step.`,
		Args: cobra.NoArgs,
		RunE: a.runMigrate,
	}
}

func (a *app) runMigrate(cmd *cobra.Command, _ []string) error {
	location := a.cfg.Database.Path
	if a.cfg.Database.Driver == config.DriverPostgres {
		location = "postgres"
	}

	slog.Info("Running database migrations", "driver", a.cfg.Database.Driver, "database", location)

	store, err := a.initStorage(cmd.Context())
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close merchant directory", "error", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Database migrations completed"))
	return err
}
