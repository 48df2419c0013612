package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/glyphmatch/internal/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the pattern database schema to the latest version.

Every other command migrates on open; this command only does that.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	slog.Info("Running database migrations", "database", cfg.DatabasePath)

	store, cleanup, err := openStorage(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer cleanup()

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Pattern database at schema version %d: %s\n",
		storage.ExpectedSchemaVersion, store.Path())
	return err
}
