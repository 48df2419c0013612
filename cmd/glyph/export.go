package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/glyphmatch/internal/pattern"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the pattern database as JSON",
		Long: `Export every label, its bitmap variants and the training settings as JSON.
Bitmaps are written column-major as arrays of booleans.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	cmd.Flags().Bool("pretty", false, "indent the JSON")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")
	pretty, _ := cmd.Flags().GetBool("pretty")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, cleanup, err := openStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	db, err := store.LoadDatabase(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load patterns: %w", err)
	}

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				slog.Warn("Failed to close export file", "error", closeErr)
			}
		}()
		w = f
	}

	if err := writeDatabaseJSON(w, db, pretty); err != nil {
		return fmt.Errorf("failed to export patterns: %w", err)
	}

	slog.Info("Exported patterns", "labels", db.Len(), "patterns", db.PatternCount())
	return nil
}

func writeDatabaseJSON(w io.Writer, db *pattern.Database, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(db)
}
