// Package testutil provides test helpers for glyph pattern databases backed by SQLite.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/Veraticus/glyphmatch/internal/pattern"
	"github.com/Veraticus/glyphmatch/internal/storage"
)

// TestDB represents a migrated test store with the pattern database it was seeded with.
type TestDB struct {
	Storage  *storage.SQLiteStorage
	Patterns *pattern.Database
	t        *testing.T
}

// Glyph is a labeled bitmap written as rows of '#' and '.'.
type Glyph struct {
	Label string
	Rows  []string
}

// Digits is a small 3x5 digit font used across tests.
var Digits = []Glyph{
	{Label: "0", Rows: []string{"###", "#.#", "#.#", "#.#", "###"}},
	{Label: "1", Rows: []string{".#.", "##.", ".#.", ".#.", "###"}},
	{Label: "4", Rows: []string{"#.#", "#.#", "###", "..#", "..#"}},
	{Label: "7", Rows: []string{"###", "..#", ".#.", ".#.", ".#."}},
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup     func(context.Context, *storage.SQLiteStorage) error
	Glyphs          []Glyph
	TrainingEnabled bool
	SkipMigrations  bool
}

// SetupTestDB creates a new in-memory test store seeded with glyphs.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.Digits...)
func SetupTestDB(t *testing.T, glyphs ...Glyph) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{Glyphs: glyphs})
}

// SetupTestDBWithOptions creates a test store with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	db := NewPatternDatabase(t, opts.TrainingEnabled, opts.Glyphs...)
	if !opts.SkipMigrations {
		if err := store.SaveDatabase(ctx, db); err != nil {
			t.Fatalf("failed to seed patterns: %v", err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage:  store,
		Patterns: db,
		t:        t,
	}
}

// NewPatternDatabase builds an in-memory pattern database from glyphs.
func NewPatternDatabase(t *testing.T, trainingEnabled bool, glyphs ...Glyph) *pattern.Database {
	t.Helper()

	db := pattern.NewDatabase(model.TrainingSettings{TrainingEnabled: trainingEnabled})
	for _, g := range glyphs {
		p, err := model.ParseBitPattern(g.Rows...)
		if err != nil {
			t.Fatalf("invalid glyph %q: %v", g.Label, err)
		}
		if _, err := db.AddPattern(g.Label, p); err != nil {
			t.Fatalf("failed to add glyph %q: %v", g.Label, err)
		}
	}
	return db
}

// MustGlyph returns the bitmap of the named glyph or fails the test.
func (db *TestDB) MustGlyph(label string) model.BitPattern {
	db.t.Helper()
	entry, ok := db.Patterns.Lookup(label)
	if !ok || len(entry.Patterns) == 0 {
		db.t.Fatalf("glyph %q not seeded", label)
	}
	return entry.Patterns[0]
}

// Reload reads the pattern database back from storage.
func (db *TestDB) Reload() *pattern.Database {
	db.t.Helper()
	loaded, err := db.Storage.LoadDatabase(context.Background())
	if err != nil {
		db.t.Fatalf("failed to reload patterns: %v", err)
	}
	return loaded
}
