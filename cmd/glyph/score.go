package main

import (
	"fmt"

	"github.com/Veraticus/glyphmatch/internal/glyph"
	"github.com/Veraticus/glyphmatch/internal/pattern"
	"github.com/spf13/cobra"
)

func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score TEMPLATE CANDIDATE",
		Short: "Print how well a candidate glyph matches a template",
		Long: `Compare two glyph files and print the match score: 1 is identical, and every
disagreeing cell in the overlapping region lowers it relative to the template size.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts := glyphOptions(cfg)

			template, _, err := glyph.Load(args[0], opts)
			if err != nil {
				return err
			}
			candidate, _, err := glyph.Load(args[1], opts)
			if err != nil {
				return err
			}

			match, offset := pattern.Score(template, candidate)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "match %.4f offset %d\n", match, offset)
			return err
		},
	}
}
