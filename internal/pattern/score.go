package pattern

import "github.com/Veraticus/glyphmatch/internal/model"

// Score returns how well candidate matches template as 1 - difference/templateCells,
// using the matcher's weighted difference over the overlapping region without any
// pre-filter or early exit. offset is reserved for alignment search and is always 0.
func Score(template, candidate model.BitPattern) (match float64, offset int) {
	dif, _ := weightedDifference(candidate, template, -1)

	cells := template.Cells()
	if cells == 0 {
		return 1, 0
	}
	return 1 - dif/float64(cells), 0
}
