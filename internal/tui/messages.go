package tui

import (
	"image"

	"github.com/Veraticus/glyphmatch/internal/model"
)

// labelRequestMsg asks the model to prompt for a glyph label.
type labelRequestMsg struct {
	source image.Image
	glyph  model.BitPattern
}

// errorMsg surfaces an error in the view.
type errorMsg struct {
	err error
}
