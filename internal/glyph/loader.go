// Package glyph turns glyph files (bitmaps or '#'/'.' text) into bit patterns.
package glyph

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register decoder
	_ "image/png" // register decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/glyphmatch/internal/model"
	_ "golang.org/x/image/bmp" // register decoder
)

// ErrEmptyGlyph is returned when a glyph file has no cells.
var ErrEmptyGlyph = errors.New("glyph has no cells")

// Options controls how images are reduced to bits.
type Options struct {
	// Threshold is the luminance boundary between ink and background.
	Threshold uint8
	// DarkInk marks pixels darker than Threshold as set. By default light pixels are ink.
	DarkInk bool
	// Crop trims background rows and columns around the ink.
	Crop bool
}

// DefaultOptions returns light-on-dark thresholding at mid gray with cropping.
func DefaultOptions() Options {
	return Options{
		Threshold: 128,
		Crop:      true,
	}
}

// Load reads a glyph file. Files ending in .txt are parsed as rows of '#' and '.';
// anything else is decoded as an image (png, gif or bmp). The decoded image is
// returned as well so it can be shown to a labeler; it is nil for text glyphs.
func Load(path string, opts Options) (model.BitPattern, image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.BitPattern{}, nil, fmt.Errorf("failed to open glyph: %w", err)
	}
	defer func() { _ = f.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".txt") {
		p, err := ReadText(f)
		if err != nil {
			return model.BitPattern{}, nil, fmt.Errorf("%s: %w", path, err)
		}
		return p, nil, nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return model.BitPattern{}, nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	p := FromImage(img, opts)
	if p.IsEmpty() {
		return model.BitPattern{}, nil, fmt.Errorf("%s: %w", path, ErrEmptyGlyph)
	}
	return p, img, nil
}

// ReadText parses a glyph written as rows of '#' and '.'. Blank lines are ignored.
func ReadText(r io.Reader) (model.BitPattern, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if err := scanner.Err(); err != nil {
		return model.BitPattern{}, fmt.Errorf("failed to read glyph: %w", err)
	}
	if len(rows) == 0 {
		return model.BitPattern{}, ErrEmptyGlyph
	}
	return model.ParseBitPattern(rows...)
}

// FromImage thresholds img into a bit pattern, optionally cropped to the ink.
func FromImage(img image.Image, opts Options) model.BitPattern {
	b := img.Bounds()
	ink := func(x, y int) bool {
		lum := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
		if opts.DarkInk {
			return lum < opts.Threshold
		}
		return lum >= opts.Threshold
	}

	full := model.NewBitPatternFunc(b.Dx(), b.Dy(), ink)
	if !opts.Crop {
		return full
	}
	return Crop(full)
}

// Crop trims unset border rows and columns. A pattern without set cells becomes empty.
func Crop(p model.BitPattern) model.BitPattern {
	if p.Popcount() == 0 {
		return model.BitPattern{}
	}

	minX, minY := p.Width(), p.Height()
	maxX, maxY := -1, -1
	for x := 0; x < p.Width(); x++ {
		for y := 0; y < p.Height(); y++ {
			if !p.At(x, y) {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}

	return model.NewBitPatternFunc(maxX-minX+1, maxY-minY+1, func(x, y int) bool {
		return p.At(minX+x, minY+y)
	})
}
