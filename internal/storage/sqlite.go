package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/glyphmatch/internal/common"
	"github.com/gofrs/flock"
	"github.com/mattn/go-sqlite3"
)

const memoryPath = ":memory:"

// SQLiteStorage persists the glyph pattern database in SQLite.
// A lock file next to the database keeps two processes from training the same store.
type SQLiteStorage struct {
	db     *sql.DB
	lock   *flock.Flock
	dbPath string
}

// NewSQLiteStorage opens (creating if needed) the database at dbPath and takes its lock.
// It returns common.ErrDatabaseLocked when another process holds the lock.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	var lock *flock.Flock
	if dbPath != memoryPath {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		lock = flock.New(dbPath + ".lock")
		locked, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("failed to lock database: %w", err)
		}
		if !locked {
			return nil, fmt.Errorf("%w: %s", common.ErrDatabaseLocked, dbPath)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		unlock(lock)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		unlock(lock)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		lock:   lock,
		dbPath: dbPath,
	}, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection and releases the lock.
func (s *SQLiteStorage) Close() error {
	err := s.db.Close()
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("failed to release database lock: %w", unlockErr)
		}
	}
	return err
}

func unlock(lock *flock.Flock) {
	if lock != nil {
		_ = lock.Unlock()
	}
}

// classifyError marks SQLite busy/locked errors as common.ErrBusy so they can be retried.
func classifyError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return fmt.Errorf("%w: %w", common.ErrBusy, err)
	}
	return err
}
