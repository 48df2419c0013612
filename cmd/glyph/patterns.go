package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/glyphmatch/internal/common"
	"github.com/Veraticus/glyphmatch/internal/glyph"
	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/spf13/cobra"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect and edit the pattern database",
	}

	cmd.AddCommand(patternsListCmd())
	cmd.AddCommand(patternsShowCmd())
	cmd.AddCommand(patternsAddCmd())

	return cmd
}

func patternsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List labels in database order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			if db.Len() == 0 {
				_, err := fmt.Fprintln(w, "No patterns trained yet.")
				return err
			}

			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			if _, err := fmt.Fprintln(tw, "#\tLABEL\tVARIANTS\tSIZES"); err != nil {
				return err
			}
			for i, entry := range db.Entries() {
				if _, err := fmt.Fprintf(tw, "%d\t%q\t%d\t%s\n",
					i, entry.Label, len(entry.Patterns), variantSizes(entry.Patterns)); err != nil {
					return err
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "\n%d label(s), %d pattern(s), training %s\n",
				db.Len(), db.PatternCount(), enabledString(db.Settings.TrainingEnabled))
			return err
		},
	}
}

func patternsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show LABEL",
		Short: "Print every variant trained for a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			entry, ok := db.Lookup(args[0])
			if !ok {
				return common.NewUserError(fmt.Sprintf("No patterns for label %q", args[0]), common.ErrNotFound)
			}
			return writeVariants(cmd.OutOrStdout(), entry.Label, entry.Patterns)
		},
	}
}

func patternsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add LABEL FILE...",
		Short: "Train a label from glyph files without prompting",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, _ := cmd.Flags().GetInt("threshold")
			darkInk, _ := cmd.Flags().GetBool("dark-ink")
			if threshold < 0 || threshold > 255 {
				return fmt.Errorf("%w: threshold must be within 0-255", common.ErrInvalidConfig)
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

			db, err := store.LoadDatabase(ctx)
			if err != nil {
				return fmt.Errorf("failed to load patterns: %w", err)
			}

			label := args[0]
			opts := glyph.Options{Threshold: uint8(threshold), DarkInk: darkInk, Crop: true} //nolint:gosec // range checked above
			for _, path := range args[1:] {
				p, _, err := glyph.Load(path, opts)
				if err != nil {
					return err
				}
				if _, err := db.AddPattern(label, p); err != nil {
					return err
				}
			}

			if err := store.DatabaseChanged(ctx, db); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %d pattern(s) to %q\n", len(args)-1, label)
			return err
		},
	}

	cmd.Flags().Int("threshold", 128, "luminance threshold between ink and background")
	cmd.Flags().Bool("dark-ink", false, "treat dark pixels as ink")

	return cmd
}

func writeVariants(w io.Writer, label string, variants []model.BitPattern) error {
	for i, p := range variants {
		if _, err := fmt.Fprintf(w, "%q variant %d (%dx%d, %d set)\n%s\n\n",
			label, i, p.Width(), p.Height(), p.Popcount(), p); err != nil {
			return err
		}
	}
	return nil
}

// variantSizes lists the distinct variant sizes, smallest first.
func variantSizes(variants []model.BitPattern) string {
	seen := make(map[string]bool)
	type size struct{ w, h int }
	var sizes []size
	for _, p := range variants {
		key := fmt.Sprintf("%dx%d", p.Width(), p.Height())
		if seen[key] {
			continue
		}
		seen[key] = true
		sizes = append(sizes, size{p.Width(), p.Height()})
	}
	sort.Slice(sizes, func(i, j int) bool {
		if sizes[i].w*sizes[i].h != sizes[j].w*sizes[j].h {
			return sizes[i].w*sizes[i].h < sizes[j].w*sizes[j].h
		}
		return sizes[i].w < sizes[j].w
	})

	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = fmt.Sprintf("%dx%d", s.w, s.h)
	}
	return strings.Join(parts, " ")
}

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
