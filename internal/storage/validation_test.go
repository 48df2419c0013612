package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/Veraticus/glyphmatch/internal/pattern"
	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		wantErr bool
	}{
		{name: "valid string", str: "patterns.db"},
		{name: "empty string", str: "", wantErr: true},
		{name: "whitespace only", str: " \t\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, "param")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEmptyString)
				assert.Contains(t, err.Error(), "param")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateDatabase(t *testing.T) {
	glyph := model.MustParseBitPattern("#.", ".#")

	tests := []struct {
		build   func() *pattern.Database
		wantErr error
		name    string
	}{
		{
			name: "valid database",
			build: func() *pattern.Database {
				db := pattern.NewDatabase(model.TrainingSettings{})
				_, _ = db.AddPattern("a", glyph)
				_, _ = db.AddPattern("b", glyph)
				return db
			},
		},
		{
			name:  "empty database",
			build: func() *pattern.Database { return pattern.NewDatabase(model.TrainingSettings{}) },
		},
		{
			name:    "nil database",
			build:   func() *pattern.Database { return nil },
			wantErr: ErrNilParameter,
		},
		{
			name: "empty bitmap",
			build: func() *pattern.Database {
				db := pattern.NewDatabase(model.TrainingSettings{})
				_, _ = db.AddPattern("a", glyph)
				db.Entries()[0].Patterns = append(db.Entries()[0].Patterns, model.BitPattern{})
				return db
			},
			wantErr: ErrInvalidDatabase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDatabase(tt.build())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateTrainingEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   model.TrainingEvent
		wantErr bool
	}{
		{name: "trained with label", event: model.TrainingEvent{Status: model.StatusTrained, Label: "3"}},
		{name: "trained without label", event: model.TrainingEvent{Status: model.StatusTrained}, wantErr: true},
		{name: "skipped", event: model.TrainingEvent{Status: model.StatusSkipped}},
		{name: "aborted", event: model.TrainingEvent{Status: model.StatusAborted}},
		{name: "matched is not a training outcome", event: model.TrainingEvent{Status: model.StatusMatched}, wantErr: true},
		{name: "unknown status", event: model.TrainingEvent{Status: "BOGUS"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTrainingEvent(tt.event)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			assert.NoError(t, err)
		})
	}
}
