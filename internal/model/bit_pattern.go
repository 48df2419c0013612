// Package model defines the core domain models used throughout the application.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Glyph text format runes.
const (
	SetRune   = '#'
	UnsetRune = '.'
)

// neighborOffsets are the axis-aligned unit offsets probed by HasQualifyingNeighbor.
var neighborOffsets = [4][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}

// BitPattern is an immutable binary glyph bitmap. Cells are true for foreground pixels.
// The zero value is an empty 0x0 pattern.
type BitPattern struct {
	cells    []bool
	width    int
	height   int
	popcount int
}

// NewBitPattern builds a pattern from column-major cells, cells[x][y], copying the input.
// Every column must have the same length.
func NewBitPattern(cells [][]bool) (BitPattern, error) {
	width := len(cells)
	if width == 0 {
		return BitPattern{}, nil
	}
	height := len(cells[0])

	p := BitPattern{
		cells:  make([]bool, width*height),
		width:  width,
		height: height,
	}
	for x, column := range cells {
		if len(column) != height {
			return BitPattern{}, fmt.Errorf("%w: column %d has %d cells, expected %d", ErrInvalidPattern, x, len(column), height)
		}
		for y, set := range column {
			if set {
				p.cells[y*width+x] = true
				p.popcount++
			}
		}
	}
	if height == 0 {
		return BitPattern{}, nil
	}
	return p, nil
}

// NewBitPatternFunc builds a width x height pattern by sampling set for every cell.
func NewBitPatternFunc(width, height int, set func(x, y int) bool) BitPattern {
	if width <= 0 || height <= 0 {
		return BitPattern{}
	}
	p := BitPattern{
		cells:  make([]bool, width*height),
		width:  width,
		height: height,
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if set(x, y) {
				p.cells[y*width+x] = true
				p.popcount++
			}
		}
	}
	return p
}

// ParseBitPattern parses rows of '#' (set) and '.' (unset) runes, top row first.
// Spaces and 'X'/'1' are also accepted as unset and set markers for hand-written fixtures.
func ParseBitPattern(rows ...string) (BitPattern, error) {
	if len(rows) == 0 {
		return BitPattern{}, nil
	}
	width := len([]rune(rows[0]))
	for i, row := range rows {
		if n := len([]rune(row)); n != width {
			return BitPattern{}, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidPattern, i, n, width)
		}
	}

	var parseErr error
	p := NewBitPatternFunc(width, len(rows), func(x, y int) bool {
		switch r := []rune(rows[y])[x]; r {
		case SetRune, 'X', '1':
			return true
		case UnsetRune, ' ', '0':
			return false
		default:
			if parseErr == nil {
				parseErr = fmt.Errorf("%w: unexpected rune %q at (%d,%d)", ErrInvalidPattern, r, x, y)
			}
			return false
		}
	})
	if parseErr != nil {
		return BitPattern{}, parseErr
	}
	return p, nil
}

// MustParseBitPattern is like ParseBitPattern but panics on malformed input.
func MustParseBitPattern(rows ...string) BitPattern {
	p, err := ParseBitPattern(rows...)
	if err != nil {
		panic(err)
	}
	return p
}

// Width returns the number of columns.
func (p BitPattern) Width() int { return p.width }

// Height returns the number of rows.
func (p BitPattern) Height() int { return p.height }

// Cells returns width*height.
func (p BitPattern) Cells() int { return p.width * p.height }

// Popcount returns the number of set cells.
func (p BitPattern) Popcount() int { return p.popcount }

// IsEmpty reports whether the pattern has no cells.
func (p BitPattern) IsEmpty() bool { return p.Cells() == 0 }

// At reports whether the cell at (x, y) is set. Out of range coordinates read as unset.
func (p BitPattern) At(x, y int) bool {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return false
	}
	return p.cells[y*p.width+x]
}

// HasQualifyingNeighbor looks for the first axis-aligned neighbor of (x, y) lying strictly
// inside (0, width) x (0, height) and then returns the value of (x, y) itself, not of the
// neighbor. Border cells at index 0 never qualify through that neighbor.
//
// The neighbor cell is never read. Stored patterns were trained against this exact
// behavior, so it stays as is.
func (p BitPattern) HasQualifyingNeighbor(x, y int) bool {
	for _, off := range neighborOffsets {
		nx, ny := x+off[0], y+off[1]
		if nx > 0 && nx < p.width && ny > 0 && ny < p.height {
			return p.At(x, y)
		}
	}
	return false
}

// Equal reports whether both patterns have the same dimensions and cells.
func (p BitPattern) Equal(other BitPattern) bool {
	if p.width != other.width || p.height != other.height || p.popcount != other.popcount {
		return false
	}
	for i := range p.cells {
		if p.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Columns returns a column-major copy of the cells, cells[x][y].
func (p BitPattern) Columns() [][]bool {
	columns := make([][]bool, p.width)
	for x := range columns {
		columns[x] = make([]bool, p.height)
		for y := range columns[x] {
			columns[x][y] = p.cells[y*p.width+x]
		}
	}
	return columns
}

// Rows renders the pattern in the glyph text format, top row first.
func (p BitPattern) Rows() []string {
	rows := make([]string, p.height)
	var b strings.Builder
	for y := 0; y < p.height; y++ {
		b.Reset()
		for x := 0; x < p.width; x++ {
			if p.cells[y*p.width+x] {
				b.WriteRune(SetRune)
			} else {
				b.WriteRune(UnsetRune)
			}
		}
		rows[y] = b.String()
	}
	return rows
}

// String renders the pattern as newline separated rows.
func (p BitPattern) String() string {
	return strings.Join(p.Rows(), "\n")
}

// MarshalJSON encodes the pattern as a column-major array of boolean columns.
func (p BitPattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Columns())
}

// UnmarshalJSON decodes a column-major array of boolean columns.
func (p *BitPattern) UnmarshalJSON(data []byte) error {
	var columns [][]bool
	if err := json.Unmarshal(data, &columns); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	decoded, err := NewBitPattern(columns)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}
