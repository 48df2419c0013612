package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/spf13/cobra"
)

func trainingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "training",
		Short: "Manage the interactive training setting",
	}

	cmd.AddCommand(trainingToggleCmd("enable", "Prompt for unknown glyphs", true))
	cmd.AddCommand(trainingToggleCmd("disable", "Report unknown glyphs as ? without prompting", false))
	cmd.AddCommand(trainingStatusCmd())
	cmd.AddCommand(trainingHistoryCmd())

	return cmd
}

func trainingToggleCmd(use, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
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

			if err := store.SaveTrainingSettings(cmd.Context(), model.TrainingSettings{TrainingEnabled: enabled}); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Training %s\n", enabledString(enabled))
			return err
		},
	}
}

func trainingStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether training is enabled",
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

			settings, err := store.GetTrainingSettings(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Training %s\n", enabledString(settings.TrainingEnabled))
			return err
		},
	}
}

func trainingHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent training prompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, cleanup, err := openStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			events, err := store.GetTrainingHistory(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No training history.")
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			if _, err := fmt.Fprintln(tw, "TIME\tSESSION\tSTATUS\tLABEL\tSIZE"); err != nil {
				return err
			}
			for _, e := range events {
				if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%dx%d\n",
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"), shortSession(e.SessionID),
					e.Status, e.Label, e.Width, e.Height); err != nil {
					return err
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int("limit", 20, "number of events to show (0 = all)")

	return cmd
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
