package pattern

import (
	"testing"

	"github.com/Veraticus/glyphmatch/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		template  model.BitPattern
		candidate model.BitPattern
		want      float64
	}{
		{name: "identical", template: glyphSeven, candidate: glyphSeven, want: 1},
		{name: "one cell of nine", template: glyphBlock, candidate: glyphRing, want: 1 - 1.0/9},
		{name: "smaller candidate compares overlap", template: model.MustParseBitPattern("##", "##"), candidate: model.MustParseBitPattern("#"), want: 1},
		{name: "larger candidate compares overlap", template: model.MustParseBitPattern("#"), candidate: glyphBlock, want: 1},
		{name: "overlap difference over template size", template: model.MustParseBitPattern("##", "##"), candidate: model.MustParseBitPattern(".#."), want: 0.75},
		{name: "empty template", template: model.BitPattern{}, candidate: glyphRing, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, offset := Score(tt.template, tt.candidate)
			assert.InDelta(t, tt.want, match, 1e-9)
			assert.Equal(t, 0, offset)
		})
	}
}

func TestScore_ComplementNonIncreasingWithPopcount(t *testing.T) {
	const size = 5
	previous := 2.0
	for n := 0; n <= size*size; n++ {
		template := model.NewBitPatternFunc(size, size, func(x, y int) bool { return y*size+x < n })
		complement := model.NewBitPatternFunc(size, size, func(x, y int) bool { return !template.At(x, y) })

		match, offset := Score(template, complement)
		assert.LessOrEqual(t, match, previous, "popcount %d", n)
		assert.InDelta(t, 0, match, 1e-9)
		assert.Equal(t, 0, offset)
		previous = match
	}
}
