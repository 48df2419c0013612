package storage

import (
	"fmt"

	"github.com/Veraticus/glyphmatch/internal/common"
	"github.com/Veraticus/glyphmatch/internal/model"
)

// encodeBits packs a pattern row-major, most significant bit first.
func encodeBits(p model.BitPattern) []byte {
	out := make([]byte, (p.Cells()+7)/8)
	i := 0
	for y := 0; y < p.Height(); y++ {
		for x := 0; x < p.Width(); x++ {
			if p.At(x, y) {
				out[i/8] |= 0x80 >> (i % 8)
			}
			i++
		}
	}
	return out
}

// decodeBits reverses encodeBits.
func decodeBits(width, height int, bits []byte) (model.BitPattern, error) {
	if width <= 0 || height <= 0 {
		return model.BitPattern{}, fmt.Errorf("%w: invalid size %dx%d", common.ErrDatabaseCorrupted, width, height)
	}
	if want := (width*height + 7) / 8; len(bits) != want {
		return model.BitPattern{}, fmt.Errorf("%w: %dx%d pattern has %d bytes, expected %d",
			common.ErrDatabaseCorrupted, width, height, len(bits), want)
	}
	return model.NewBitPatternFunc(width, height, func(x, y int) bool {
		i := y*width + x
		return bits[i/8]&(0x80>>(i%8)) != 0
	}), nil
}
