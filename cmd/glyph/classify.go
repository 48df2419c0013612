package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/Veraticus/glyphmatch/internal/cli"
	"github.com/Veraticus/glyphmatch/internal/common"
	"github.com/Veraticus/glyphmatch/internal/config"
	"github.com/Veraticus/glyphmatch/internal/engine"
	"github.com/Veraticus/glyphmatch/internal/glyph"
	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/Veraticus/glyphmatch/internal/pattern"
	"github.com/Veraticus/glyphmatch/internal/storage"
	"github.com/Veraticus/glyphmatch/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify FILE...",
		Short: "Recognize glyph files, training unknown glyphs",
		Long: `Classify each glyph file (png, gif, bmp or a .txt grid of '#' and '.') against
the pattern database and print its label.

When training is enabled, glyphs that match nothing are shown to you: type the
label to learn it, leave it blank to skip, or stop training. Learned patterns are
saved immediately.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().Float64("tolerance", model.DefaultTolerance, "matching tolerance (0 = exact)")
	cmd.Flags().Bool("only-numbers", false, "only consider numeric labels (0-9 . , % / : LEVEL)")
	cmd.Flags().Bool("train", false, "prompt for unknown glyphs this run (overrides the stored setting)")
	cmd.Flags().String("interface", config.InterfaceCLI, "training interface (cli, tui)")
	cmd.Flags().Int("threshold", 128, "luminance threshold between ink and background")
	cmd.Flags().Bool("dark-ink", false, "treat dark pixels as ink")
	cmd.Flags().Bool("text", false, "print the recognized text as one string")

	_ = viper.BindPFlag(config.KeyTolerance, cmd.Flags().Lookup("tolerance"))
	_ = viper.BindPFlag(config.KeyOnlyNumbers, cmd.Flags().Lookup("only-numbers"))
	_ = viper.BindPFlag(config.KeyTrainingEnabled, cmd.Flags().Lookup("train"))
	_ = viper.BindPFlag(config.KeyInterface, cmd.Flags().Lookup("interface"))
	_ = viper.BindPFlag(config.KeyThreshold, cmd.Flags().Lookup("threshold"))
	_ = viper.BindPFlag(config.KeyDarkInk, cmd.Flags().Lookup("dark-ink"))

	return cmd
}

// fileResult pairs a glyph file with its recognition.
type fileResult struct {
	path   string
	result model.Recognition
}

func runClassify(cmd *cobra.Command, files []string) error {
	textOnly, _ := cmd.Flags().GetBool("text")

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
	stored := db.Settings
	if cfg.TrainingEnabled != nil {
		db.Settings.TrainingEnabled = *cfg.TrainingEnabled
	}
	training := db.Settings.TrainingEnabled

	common.LogDebug("Classifying glyph files", common.Fields{
		"files":    len(files),
		"labels":   db.Len(),
		"patterns": db.PatternCount(),
		"training": training,
	})

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx = interrupts.HandleInterrupts(ctx, training)
	defer interrupts.Stop()

	var (
		trainer   *engine.Trainer
		showError = func(error) {}
	)
	if training {
		var labeler engine.Labeler
		switch cfg.Interface {
		case config.InterfaceTUI:
			tuiLabeler := tui.New(ctx, tui.WithIO(cmd.InOrStdin(), cmd.ErrOrStderr()))
			tuiErrs := tuiLabeler.Start()
			defer func() {
				tuiLabeler.Shutdown()
				if err := <-tuiErrs; err != nil {
					slog.Warn("Training interface exited with error", "error", err)
				}
			}()
			labeler = tuiLabeler
			showError = tuiLabeler.ShowError
		default:
			cliLabeler := cli.NewLabeler(cmd.InOrStdin(), cmd.ErrOrStderr())
			defer cliLabeler.ShowSummary()
			labeler = cliLabeler
			showError = cliLabeler.ShowError
		}

		trainer = engine.NewTrainer(db, labeler, keepStoredSettings(store, stored),
			engine.WithHistory(store, storage.NewSessionID()))
	}
	recognizer := engine.New(db, trainer)

	queries, paths, loadErrs := loadQueries(files, cfg)
	if len(queries) == 0 {
		return common.NewUserError("None of the glyph files could be read", common.ErrNoGlyphs)
	}

	var results []fileResult
	if textOnly {
		text, ok, err := recognizer.Recognize(ctx, queries)
		if err != nil {
			return classifyError(interrupts, err)
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
			return err
		}
		if !ok {
			return common.NewUserError("Training stopped before all glyphs were recognized", common.ErrTrainingAborted)
		}
	} else {
		results, err = classifyEach(ctx, cmd.ErrOrStderr(), recognizer, queries, paths, showError, !training)
		if err != nil {
			return classifyError(interrupts, err)
		}
		if err := writeResults(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	}

	if loadErrs > 0 {
		return common.NewUserError(fmt.Sprintf("%d glyph file(s) could not be read", loadErrs), nil)
	}
	return nil
}

// keepStoredSettings persists trained patterns without persisting a one-run training override.
func keepStoredSettings(store *storage.SQLiteStorage, stored model.TrainingSettings) engine.ChangeListener {
	return engine.ChangeListenerFunc(func(ctx context.Context, db *pattern.Database) error {
		run := db.Settings
		db.Settings = stored
		defer func() { db.Settings = run }()
		return store.DatabaseChanged(ctx, db)
	})
}

func loadQueries(files []string, cfg config.Config) (queries []model.MatchQuery, paths []string, failures int) {
	opts := glyphOptions(cfg)

	for _, path := range files {
		p, source, err := glyph.Load(path, opts)
		if err != nil {
			common.LogError(err, "Failed to load glyph", common.Fields{"path": path})
			failures++
			continue
		}

		q := model.NewMatchQuery(p, source)
		q.Tolerance = cfg.Tolerance
		q.OnlyNumbers = cfg.OnlyNumbers
		queries = append(queries, q)
		paths = append(paths, path)
	}
	return queries, paths, failures
}

func classifyEach(ctx context.Context, progressOut io.Writer, recognizer *engine.Recognizer,
	queries []model.MatchQuery, paths []string, showError func(error), showProgress bool) ([]fileResult, error) {
	var bar interface{ Add(int) error }
	if showProgress && len(queries) > 1 {
		bar = cli.NewProgressBar(progressOut, len(queries), "Recognizing glyphs...")
	}

	results := make([]fileResult, 0, len(queries))
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := recognizer.FindMatchingChar(ctx, q)
		if err != nil {
			if result.Status != model.StatusTrained {
				return results, err
			}
			// the label is learned for this run even though it was not saved
			common.LogError(err, "Trained pattern was not saved", common.Fields{"path": paths[i], "label": result.Label})
			showError(err)
		}
		results = append(results, fileResult{path: paths[i], result: result})

		if bar != nil {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
		if result.Status == model.StatusAborted {
			slog.Info("Training stopped", "remaining", len(queries)-i-1)
			break
		}
	}
	return results, nil
}

func writeResults(w io.Writer, results []fileResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "FILE\tLABEL\tSTATUS\tDIFFERENCE"); err != nil {
		return err
	}
	for _, r := range results {
		label, _ := r.result.Text()
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", r.path, label, r.result.Status, r.result.Difference); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func classifyError(interrupts *cli.InterruptHandler, err error) error {
	if interrupts.WasInterrupted() && errors.Is(err, context.Canceled) {
		return common.NewUserError("Recognition interrupted", err)
	}
	return err
}
