package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/Veraticus/glyphmatch/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHistory struct {
	err    error
	events []model.TrainingEvent
}

func (h *recordingHistory) RecordTraining(_ context.Context, event model.TrainingEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func TestTrainer_RecordsHistory(t *testing.T) {
	db := pattern.NewDatabase(model.TrainingSettings{TrainingEnabled: true})
	labeler := NewMockLabeler(model.CancelLabel())
	labeler.Queue(model.AcceptLabel("A"), model.SkipLabel())
	history := &recordingHistory{}

	trainer := NewTrainer(db, labeler, nil, WithHistory(history, "session-1"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := trainer.Train(ctx, model.NewMatchQuery(glyphUnknown, nil))
		require.NoError(t, err)
	}

	require.Len(t, history.events, 3)
	assert.Equal(t, model.StatusTrained, history.events[0].Status)
	assert.Equal(t, "A", history.events[0].Label)
	assert.Equal(t, model.StatusSkipped, history.events[1].Status)
	assert.Equal(t, model.StatusAborted, history.events[2].Status)
	for _, e := range history.events {
		assert.Equal(t, "session-1", e.SessionID)
		assert.Equal(t, 5, e.Width)
		assert.Equal(t, 3, e.Height)
		assert.False(t, e.CreatedAt.IsZero())
	}
}

func TestTrainer_HistoryErrorIsNotFatal(t *testing.T) {
	db := pattern.NewDatabase(model.TrainingSettings{TrainingEnabled: true})
	history := &recordingHistory{err: errors.New("locked")}
	trainer := NewTrainer(db, NewMockLabeler(model.AcceptLabel("A")), nil, WithHistory(history, ""))

	result, err := trainer.Train(context.Background(), model.NewMatchQuery(glyphUnknown, nil))
	require.NoError(t, err)
	assert.Equal(t, model.StatusTrained, result.Status)
	assert.Equal(t, 1, db.Len())
}

func TestTrainer_ListenerFunc(t *testing.T) {
	db := pattern.NewDatabase(model.TrainingSettings{TrainingEnabled: true})
	var saved *pattern.Database
	listener := ChangeListenerFunc(func(_ context.Context, changed *pattern.Database) error {
		saved = changed
		return nil
	})

	trainer := NewTrainer(db, NewMockLabeler(model.AcceptLabel("A")), listener)
	_, err := trainer.Train(context.Background(), model.NewMatchQuery(glyphUnknown, nil))
	require.NoError(t, err)
	assert.Same(t, db, saved)
}

func TestTrainer_NoLabeler(t *testing.T) {
	trainer := NewTrainer(pattern.NewDatabase(model.TrainingSettings{}), nil, nil)
	_, err := trainer.Train(context.Background(), model.NewMatchQuery(glyphUnknown, nil))
	assert.ErrorIs(t, err, ErrNoLabeler)
}

func TestTrainer_RejectsEmptyGlyph(t *testing.T) {
	db := pattern.NewDatabase(model.TrainingSettings{TrainingEnabled: true})
	listener := &countingListener{}
	trainer := NewTrainer(db, NewMockLabeler(model.AcceptLabel("A")), listener)

	result, err := trainer.Train(context.Background(), model.NewMatchQuery(model.BitPattern{}, nil))
	require.ErrorIs(t, err, model.ErrInvalidPattern)
	assert.Equal(t, model.StatusTrained, result.Status)
	assert.Zero(t, db.Len())
	assert.Zero(t, listener.calls)

	// the next valid glyph still saves
	_, err = trainer.Train(context.Background(), model.NewMatchQuery(glyphUnknown, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, db.Len())
	assert.Equal(t, 1, listener.calls)
}

func TestMockLabeler_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockLabeler(model.SkipLabel()).Label(ctx, glyphUnknown, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
