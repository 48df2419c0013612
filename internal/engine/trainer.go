package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/Veraticus/glyphmatch/internal/pattern"
)

// ErrNoLabeler is returned by Train when the trainer has no labeler.
var ErrNoLabeler = errors.New("no labeler configured")

// Trainer asks a human for the label of an unmatched glyph and absorbs the answer
// into the pattern database.
type Trainer struct {
	db        *pattern.Database
	labeler   Labeler
	listener  ChangeListener
	history   HistoryRecorder
	sessionID string
}

// TrainerOption configures a Trainer.
type TrainerOption func(*Trainer)

// WithHistory records every finished prompt.
func WithHistory(recorder HistoryRecorder, sessionID string) TrainerOption {
	return func(t *Trainer) {
		t.history = recorder
		t.sessionID = sessionID
	}
}

// NewTrainer creates a trainer. listener may be nil when nothing persists the database.
func NewTrainer(db *pattern.Database, labeler Labeler, listener ChangeListener, opts ...TrainerOption) *Trainer {
	t := &Trainer{
		db:       db,
		labeler:  labeler,
		listener: listener,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Train prompts for the label of query's glyph. Cancel and skip leave the database
// untouched; a label is added to the database and the change listener is notified.
// When the listener fails the new pattern stays in memory and the error is returned
// along with the trained recognition.
func (t *Trainer) Train(ctx context.Context, query model.MatchQuery) (model.Recognition, error) {
	if t.labeler == nil {
		return model.Recognition{}, ErrNoLabeler
	}

	response, err := t.labeler.Label(ctx, query.Pattern, query.Source)
	if err != nil {
		return model.Recognition{}, fmt.Errorf("failed to get label: %w", err)
	}

	var result model.Recognition
	switch {
	case response.Action == model.LabelCancel:
		slog.Info("Training aborted")
		result = model.Recognition{Status: model.StatusAborted}
	case response.Action == model.LabelSkip || response.Label == "":
		slog.Info("Glyph skipped during training",
			"width", query.Pattern.Width(),
			"height", query.Pattern.Height())
		result = model.Recognition{Status: model.StatusSkipped}
	default:
		result = model.Recognition{Status: model.StatusTrained, Label: response.Label}
	}

	t.recordHistory(ctx, query.Pattern, result)

	if result.Status != model.StatusTrained {
		return result, nil
	}
	return result, t.addPattern(ctx, result.Label, query.Pattern)
}

func (t *Trainer) addPattern(ctx context.Context, label string, glyph model.BitPattern) error {
	created, err := t.db.AddPattern(label, glyph)
	if err != nil {
		return fmt.Errorf("failed to add pattern: %w", err)
	}

	slog.Info("Trained new glyph pattern",
		"label", label,
		"new_label", created,
		"labels", t.db.Len(),
		"patterns", t.db.PatternCount())

	if t.listener == nil {
		return nil
	}
	if err := t.listener.DatabaseChanged(ctx, t.db); err != nil {
		slog.Error("Failed to save pattern database", "label", label, "error", err)
		return fmt.Errorf("failed to save pattern database: %w", err)
	}
	return nil
}

func (t *Trainer) recordHistory(ctx context.Context, glyph model.BitPattern, result model.Recognition) {
	if t.history == nil {
		return
	}
	event := model.TrainingEvent{
		CreatedAt: time.Now(),
		SessionID: t.sessionID,
		Label:     result.Label,
		Status:    result.Status,
		Width:     glyph.Width(),
		Height:    glyph.Height(),
	}
	if err := t.history.RecordTraining(ctx, event); err != nil {
		slog.Warn("Failed to record training history", "error", err)
	}
}
