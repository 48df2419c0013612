package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Veraticus/glyphmatch/internal/common"
	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/Veraticus/glyphmatch/internal/pattern"
)

const settingTrainingEnabled = "training_enabled"

// LoadDatabase reads every stored pattern in database order together with the training settings.
func (s *SQLiteStorage) LoadDatabase(ctx context.Context) (*pattern.Database, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	settings, err := s.GetTrainingSettings(ctx)
	if err != nil {
		return nil, err
	}
	db := pattern.NewDatabase(settings)

	query := `
		SELECT c.label, p.width, p.height, p.popcount, p.bits
		FROM glyph_patterns p
		JOIN characters c ON c.id = p.character_id
		ORDER BY c.position ASC, p.position ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query glyph patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			label                   string
			width, height, popcount int
			bits                    []byte
		)
		if err := rows.Scan(&label, &width, &height, &popcount, &bits); err != nil {
			return nil, fmt.Errorf("failed to scan glyph pattern: %w", err)
		}

		p, err := decodeBits(width, height, bits)
		if err != nil {
			return nil, fmt.Errorf("label %q: %w", label, err)
		}
		if p.Popcount() != popcount {
			return nil, fmt.Errorf("%w: label %q popcount %d, stored %d",
				common.ErrDatabaseCorrupted, label, p.Popcount(), popcount)
		}
		if _, err := db.AddPattern(label, p); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrDatabaseCorrupted, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating glyph patterns: %w", err)
	}

	slog.Debug("Loaded pattern database",
		"labels", db.Len(),
		"patterns", db.PatternCount())

	return db, nil
}

// SaveDatabase replaces the stored patterns and settings with db in a single transaction.
func (s *SQLiteStorage) SaveDatabase(ctx context.Context, db *pattern.Database) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDatabase(db); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classifyError(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM glyph_patterns`); err != nil {
		return classifyError(fmt.Errorf("failed to clear glyph patterns: %w", err))
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM characters`); err != nil {
		return classifyError(fmt.Errorf("failed to clear characters: %w", err))
	}

	charStmt, err := tx.PrepareContext(ctx, `INSERT INTO characters (label, position) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare character insert: %w", err)
	}
	defer func() { _ = charStmt.Close() }()

	patternStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO glyph_patterns (character_id, position, width, height, popcount, bits)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare pattern insert: %w", err)
	}
	defer func() { _ = patternStmt.Close() }()

	for i, entry := range db.Entries() {
		result, err := charStmt.ExecContext(ctx, entry.Label, i)
		if err != nil {
			return classifyError(fmt.Errorf("failed to save label %q: %w", entry.Label, err))
		}
		characterID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get character ID: %w", err)
		}

		for v, p := range entry.Patterns {
			if _, err := patternStmt.ExecContext(ctx,
				characterID, v, p.Width(), p.Height(), p.Popcount(), encodeBits(p)); err != nil {
				return classifyError(fmt.Errorf("failed to save pattern %d of %q: %w", v, entry.Label, err))
			}
		}
	}

	if err := saveTrainingSettingsTx(ctx, tx, db.Settings); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classifyError(fmt.Errorf("failed to commit pattern database: %w", err))
	}
	return nil
}

// DatabaseChanged persists db after a training mutation, retrying while SQLite is busy.
func (s *SQLiteStorage) DatabaseChanged(ctx context.Context, db *pattern.Database) error {
	err := common.WithRetry(ctx, func() error {
		return s.SaveDatabase(ctx, db)
	}, common.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return err
	}

	slog.Debug("Saved pattern database",
		"path", s.dbPath,
		"labels", db.Len(),
		"patterns", db.PatternCount())
	return nil
}

// GetTrainingSettings returns the stored training settings, defaulting to disabled training.
func (s *SQLiteStorage) GetTrainingSettings(ctx context.Context) (model.TrainingSettings, error) {
	if err := validateContext(ctx); err != nil {
		return model.TrainingSettings{}, err
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, settingTrainingEnabled).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TrainingSettings{}, nil
	}
	if err != nil {
		return model.TrainingSettings{}, fmt.Errorf("failed to get training settings: %w", err)
	}

	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return model.TrainingSettings{}, fmt.Errorf("%w: training_enabled=%q", common.ErrDatabaseCorrupted, value)
	}
	return model.TrainingSettings{TrainingEnabled: enabled}, nil
}

// SaveTrainingSettings stores settings without touching the patterns.
func (s *SQLiteStorage) SaveTrainingSettings(ctx context.Context, settings model.TrainingSettings) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveTrainingSettingsTx(ctx, tx, settings); err != nil {
		return err
	}
	return tx.Commit()
}

func saveTrainingSettingsTx(ctx context.Context, tx *sql.Tx, settings model.TrainingSettings) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, settingTrainingEnabled, strconv.FormatBool(settings.TrainingEnabled))
	if err != nil {
		return classifyError(fmt.Errorf("failed to save training settings: %w", err))
	}
	return nil
}
