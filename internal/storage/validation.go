// Package storage provides the SQLite persistence layer for the glyph pattern database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/Veraticus/glyphmatch/internal/pattern"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidStatus   = errors.New("invalid training status")
	ErrInvalidDatabase = errors.New("invalid pattern database")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDatabase checks the invariants the schema relies on: non-empty unique labels
// and at least one non-empty pattern per entry.
func validateDatabase(db *pattern.Database) error {
	if db == nil {
		return fmt.Errorf("%w: database", ErrNilParameter)
	}

	seen := make(map[string]bool, db.Len())
	for i, entry := range db.Entries() {
		if entry.Label == "" {
			return fmt.Errorf("%w: entry %d: %w", ErrInvalidDatabase, i, model.ErrEmptyLabel)
		}
		if seen[entry.Label] {
			return fmt.Errorf("%w: duplicate label %q", ErrInvalidDatabase, entry.Label)
		}
		seen[entry.Label] = true

		for v, p := range entry.Patterns {
			if p.IsEmpty() {
				return fmt.Errorf("%w: label %q variant %d is empty", ErrInvalidDatabase, entry.Label, v)
			}
		}
	}
	return nil
}

// validateTrainingEvent validates a training history event.
func validateTrainingEvent(event model.TrainingEvent) error {
	switch event.Status {
	case model.StatusTrained:
		if event.Label == "" {
			return fmt.Errorf("%w: trained event without label", ErrInvalidStatus)
		}
	case model.StatusSkipped, model.StatusAborted:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidStatus, event.Status)
	}
	return nil
}
