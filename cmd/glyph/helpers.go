package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/glyphmatch/internal/common"
	"github.com/Veraticus/glyphmatch/internal/config"
	"github.com/Veraticus/glyphmatch/internal/glyph"
	"github.com/Veraticus/glyphmatch/internal/storage"
	"github.com/spf13/viper"
)

// loadConfig resolves the configuration from viper.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, common.NewUserError("Invalid configuration", err)
	}
	return cfg, nil
}

// openStorage opens and migrates the pattern store. The caller must call cleanup.
func openStorage(ctx context.Context, cfg config.Config) (store *storage.SQLiteStorage, cleanup func(), err error) {
	store, err = storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		if errors.Is(err, common.ErrDatabaseLocked) {
			return nil, nil, common.NewUserError("Another glyph process is using the pattern database", err)
		}
		return nil, nil, fmt.Errorf("failed to open pattern database: %w", err)
	}

	cleanup = func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close pattern database", "error", closeErr)
		}
	}

	if err := store.Migrate(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, cleanup, nil
}

// glyphOptions returns the image thresholding configured for glyph files.
func glyphOptions(cfg config.Config) glyph.Options {
	return glyph.Options{
		Threshold: uint8(cfg.Threshold), //nolint:gosec // range checked by config.Validate
		DarkInk:   cfg.DarkInk,
		Crop:      true,
	}
}
