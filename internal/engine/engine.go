// Package engine implements glyph recognition with an interactive training fallback.
package engine

import (
	"context"
	"log/slog"

	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/Veraticus/glyphmatch/internal/pattern"
)

// Recognizer classifies glyph bitmaps against a pattern database and falls back to
// training when nothing matches.
type Recognizer struct {
	db      *pattern.Database
	matcher pattern.GlyphMatcher
	trainer *Trainer
}

// New creates a recognizer using the default matcher. trainer may be nil, which
// behaves like training being disabled.
func New(db *pattern.Database, trainer *Trainer) *Recognizer {
	return NewWithMatcher(db, pattern.NewMatcher(), trainer)
}

// NewWithMatcher creates a recognizer with a custom matcher.
func NewWithMatcher(db *pattern.Database, matcher pattern.GlyphMatcher, trainer *Trainer) *Recognizer {
	return &Recognizer{
		db:      db,
		matcher: matcher,
		trainer: trainer,
	}
}

// Database returns the pattern database the recognizer reads and trains.
func (r *Recognizer) Database() *pattern.Database {
	return r.db
}

// FindMatchingChar classifies query. Outcomes are reported through the recognition status;
// an error is only returned when the labeler or the change listener fails.
func (r *Recognizer) FindMatchingChar(ctx context.Context, query model.MatchQuery) (model.Recognition, error) {
	best, ok := r.matcher.FindBest(r.db, query)
	if ok {
		slog.Debug("Glyph matched",
			"label", best.Label,
			"difference", best.Difference,
			"variant", best.Variant)
		return model.Recognition{
			Label:      best.Label,
			Status:     model.StatusMatched,
			Difference: best.Difference,
		}, nil
	}

	if !r.db.Settings.TrainingEnabled || r.trainer == nil {
		slog.Debug("Glyph not recognized",
			"width", query.Pattern.Width(),
			"height", query.Pattern.Height(),
			"popcount", query.Pattern.Popcount())
		return model.Recognition{
			Label:  model.UnrecognizedLabel,
			Status: model.StatusUnrecognized,
		}, nil
	}

	return r.trainer.Train(ctx, query)
}

// Recognize classifies a sequence of glyphs and concatenates their labels. Unrecognized
// glyphs contribute "?", skipped glyphs nothing. It stops at the first aborted training
// prompt and reports ok=false.
func (r *Recognizer) Recognize(ctx context.Context, queries []model.MatchQuery) (text string, ok bool, err error) {
	var out []byte
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return string(out), false, err
		}

		result, err := r.FindMatchingChar(ctx, q)
		if err != nil {
			return string(out), false, err
		}

		label, ok := result.Text()
		if !ok {
			return string(out), false, nil
		}
		out = append(out, label...)
	}
	return string(out), true, nil
}
