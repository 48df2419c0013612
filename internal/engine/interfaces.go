package engine

import (
	"context"
	"image"

	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/Veraticus/glyphmatch/internal/pattern"
)

// Labeler defines the contract for the human labeling step during training.
// Label blocks until the human answers; the response is cancel, skip or accept.
type Labeler interface {
	Label(ctx context.Context, glyph model.BitPattern, source image.Image) (model.LabelResponse, error)
}

// ChangeListener is notified synchronously after every database mutation.
type ChangeListener interface {
	DatabaseChanged(ctx context.Context, db *pattern.Database) error
}

// ChangeListenerFunc adapts a function to ChangeListener.
type ChangeListenerFunc func(ctx context.Context, db *pattern.Database) error

// DatabaseChanged calls f.
func (f ChangeListenerFunc) DatabaseChanged(ctx context.Context, db *pattern.Database) error {
	return f(ctx, db)
}

// HistoryRecorder records finished training prompts. It is optional.
type HistoryRecorder interface {
	RecordTraining(ctx context.Context, event model.TrainingEvent) error
}
