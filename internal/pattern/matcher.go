package pattern

import (
	"math"
	"strings"

	"github.com/Veraticus/glyphmatch/internal/model"
)

// Difference weights.
const (
	nearbyWeight   = 0.33
	mismatchWeight = 1.0
	// failureBudgetFactor scales a stored pattern's popcount into the early exit budget.
	failureBudgetFactor = 1.5
)

// MatcherImpl implements GlyphMatcher with a size pre-filter, weighted pixel
// difference and early exit.
type MatcherImpl struct{}

// NewMatcher creates a new glyph matcher.
func NewMatcher() *MatcherImpl {
	return &MatcherImpl{}
}

// FindBest scans every stored pattern in database order and returns the candidate with the
// smallest weighted difference. Ties keep the first candidate found; a zero difference ends
// the scan immediately.
func (m *MatcherImpl) FindBest(db *Database, query model.MatchQuery) (Candidate, bool) {
	best := Candidate{Difference: math.MaxFloat64}
	found := false

	for i, entry := range db.Entries() {
		// if only numbers are expected, skip non numerical labels
		if query.OnlyNumbers && !strings.Contains(model.NumericLabels, entry.Label) {
			continue
		}

		for v, stored := range entry.Patterns {
			dif, ok := compareWithBudget(query.Pattern, stored, query.Tolerance)
			if !ok || dif >= best.Difference {
				continue
			}

			best = Candidate{
				Label:      entry.Label,
				EntryIndex: i,
				Variant:    v,
				Difference: dif,
			}
			found = true

			if dif == 0 {
				return best, true
			}
		}
	}

	return best, found
}

// compareWithBudget applies the size pre-filter and the popcount failure budget.
// It returns false when stored cannot match query within tolerance.
// Budgets are float64. Patterns trained with single precision budgets can decide
// differently when a budget lands within rounding of a whole difference (e.g. 0.7).
func compareWithBudget(query, stored model.BitPattern, tolerance float64) (float64, bool) {
	// integer mean of both sizes, scaled
	possibleDifSize := float64((stored.Cells()+query.Cells())/2) * tolerance
	if math.Abs(float64(stored.Cells()-query.Cells())) > possibleDifSize {
		return 0, false
	}

	possibleDif := float64(stored.Popcount()) * (failureBudgetFactor * tolerance)
	return weightedDifference(query, stored, possibleDif)
}

// weightedDifference sums disagreements over the overlapping region of query and stored.
// A disagreement costs nearbyWeight when HasQualifyingNeighbor holds on the probed grid
// (stored when the query bit is set, query otherwise) and mismatchWeight otherwise.
// The scan stops and reports false once the sum exceeds budget; a negative budget disables
// the early exit.
func weightedDifference(query, stored model.BitPattern, budget float64) (float64, bool) {
	width := min(query.Width(), stored.Width())
	height := min(query.Height(), stored.Height())

	dif := 0.0
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			qHave := query.At(x, y)
			if qHave == stored.At(x, y) {
				continue
			}

			probe := query
			if qHave {
				probe = stored
			}
			if probe.HasQualifyingNeighbor(x, y) {
				dif += nearbyWeight
			} else {
				dif += mismatchWeight
			}

			if budget >= 0 && dif > budget {
				return dif, false
			}
		}
	}
	return dif, true
}
