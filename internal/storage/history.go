package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/google/uuid"
)

// NewSessionID returns an identifier grouping the training prompts of one run.
func NewSessionID() string {
	return uuid.NewString()
}

// RecordTraining appends a training outcome to the history.
func (s *SQLiteStorage) RecordTraining(ctx context.Context, event model.TrainingEvent) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTrainingEvent(event); err != nil {
		return err
	}

	if event.SessionID == "" {
		event.SessionID = NewSessionID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO training_history (session_id, label, status, width, height, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.SessionID, event.Label, string(event.Status), event.Width, event.Height, event.CreatedAt.UTC())
	if err != nil {
		return classifyError(fmt.Errorf("failed to record training event: %w", err))
	}
	return nil
}

// GetTrainingHistory returns the most recent training events, newest first.
// A limit of 0 returns every event.
func (s *SQLiteStorage) GetTrainingHistory(ctx context.Context, limit int) ([]model.TrainingEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT session_id, label, status, width, height, created_at
		FROM training_history
		ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query training history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.TrainingEvent
	for rows.Next() {
		var (
			event  model.TrainingEvent
			status string
		)
		if err := rows.Scan(&event.SessionID, &event.Label, &status, &event.Width, &event.Height, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan training event: %w", err)
		}
		event.Status = model.RecognitionStatus(status)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating training history: %w", err)
	}
	return events, nil
}
