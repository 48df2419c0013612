// Package pattern provides the glyph pattern database and the fuzzy bitmap matcher.
package pattern

import (
	"github.com/Veraticus/glyphmatch/internal/model"
)

// GlyphMatcher finds the stored label closest to a query bitmap.
type GlyphMatcher interface {
	// FindBest scans the database and returns the best candidate, if any passed the tolerance.
	FindBest(db *Database, query model.MatchQuery) (Candidate, bool)
}

// Candidate is the best stored pattern found for a query.
type Candidate struct {
	Label      string
	EntryIndex int
	Variant    int
	Difference float64
}

// Entry is an alias to the model.CharacterEntry type for convenience.
type Entry = model.CharacterEntry
