package pattern

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/glyphmatch/internal/model"
)

// Database is the ordered, growable collection of labeled glyph patterns.
// It has no internal locking; callers serialize access.
type Database struct {
	entries  []*Entry
	index    map[string]int
	Settings model.TrainingSettings
}

// NewDatabase creates an empty database with the given training settings.
func NewDatabase(settings model.TrainingSettings) *Database {
	return &Database{
		index:    make(map[string]int),
		Settings: settings,
	}
}

// Len returns the number of character entries.
func (d *Database) Len() int {
	return len(d.entries)
}

// PatternCount returns the number of stored bitmaps across all entries.
func (d *Database) PatternCount() int {
	total := 0
	for _, e := range d.entries {
		total += len(e.Patterns)
	}
	return total
}

// Entries returns the entries in database order. The slice must not be modified.
func (d *Database) Entries() []*Entry {
	return d.entries
}

// Lookup returns the entry for label.
func (d *Database) Lookup(label string) (*Entry, bool) {
	i, ok := d.index[label]
	if !ok {
		return nil, false
	}
	return d.entries[i], true
}

// AddPattern appends p to the entry for label, creating the entry at the end of the
// database when the label is new. It reports whether a new entry was created.
// Empty bitmaps are rejected.
func (d *Database) AddPattern(label string, p model.BitPattern) (bool, error) {
	if label == "" {
		return false, model.ErrEmptyLabel
	}
	if p.IsEmpty() {
		return false, fmt.Errorf("%w: empty bitmap for label %q", model.ErrInvalidPattern, label)
	}
	if d.index == nil {
		d.index = make(map[string]int)
	}

	if i, ok := d.index[label]; ok {
		d.entries[i].Patterns = append(d.entries[i].Patterns, p)
		return false, nil
	}

	d.entries = append(d.entries, &Entry{
		Label:    label,
		Patterns: []model.BitPattern{p},
	})
	d.index[label] = len(d.entries) - 1
	return true, nil
}

// Merge adds every pattern of other to d through AddPattern, keeping other's order.
// Settings are left unchanged. It returns the number of patterns added.
func (d *Database) Merge(other *Database) (int, error) {
	added := 0
	for _, e := range other.Entries() {
		for _, p := range e.Patterns {
			if _, err := d.AddPattern(e.Label, p); err != nil {
				return added, fmt.Errorf("failed to merge label %q: %w", e.Label, err)
			}
			added++
		}
	}
	return added, nil
}

// databaseJSON is the exchange format: {"texts": [...], "trainingSettings": {...}}.
type databaseJSON struct {
	Texts            []*Entry               `json:"texts"`
	TrainingSettings model.TrainingSettings `json:"trainingSettings"`
}

// MarshalJSON implements json.Marshaler.
func (d *Database) MarshalJSON() ([]byte, error) {
	texts := d.entries
	if texts == nil {
		texts = []*Entry{}
	}
	return json.Marshal(databaseJSON{
		Texts:            texts,
		TrainingSettings: d.Settings,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Entries sharing a label are merged.
func (d *Database) UnmarshalJSON(data []byte) error {
	var raw databaseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decoded := NewDatabase(raw.TrainingSettings)
	for i, e := range raw.Texts {
		if e == nil {
			continue
		}
		if e.Label == "" {
			return fmt.Errorf("text %d: %w", i, model.ErrEmptyLabel)
		}
		for _, p := range e.Patterns {
			if _, err := decoded.AddPattern(e.Label, p); err != nil {
				return err
			}
		}
	}

	*d = *decoded
	return nil
}
