package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/glyphmatch/internal/common"
	"github.com/Veraticus/glyphmatch/internal/pattern"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Merge patterns from a JSON export",
		Long: `Import labels and bitmap variants from a JSON export ("-" reads stdin).

Imported variants are appended to existing labels and new labels are added at
the end, keeping one entry per label. With --replace the database is replaced,
training settings included.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("replace", false, "replace the database instead of merging")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	replace, _ := cmd.Flags().GetBool("replace")

	imported, err := readDatabaseJSON(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	store, cleanup, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	db := imported
	added := imported.PatternCount()
	if !replace {
		db, err = store.LoadDatabase(ctx)
		if err != nil {
			return fmt.Errorf("failed to load patterns: %w", err)
		}
		if added, err = db.Merge(imported); err != nil {
			return err
		}
	}

	if err := store.SaveDatabase(ctx, db); err != nil {
		return fmt.Errorf("failed to save patterns: %w", err)
	}

	common.LogInfo("Imported patterns", common.Fields{"source": args[0], "added": added, "replace": replace})
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d pattern(s); database now has %d label(s), %d pattern(s)\n",
		added, db.Len(), db.PatternCount())
	return err
}

func readDatabaseJSON(stdin io.Reader, path string) (*pattern.Database, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open import file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var db pattern.Database
	if err := json.NewDecoder(r).Decode(&db); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &db, nil
}
