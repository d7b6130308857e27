package rawdump

import (
	"github.com/ninjatall12/DXcam/internal/frame"
)

// PadByte fills pitch padding in synthesized buffers so leaked padding is visible.
const PadByte = 0xEE

// Pattern is a test image where every pixel of a desktop up to 256x256 is distinct.
func Pattern(x, y int) [4]byte {
	return [4]byte{byte(x), byte(y), byte(x*7 + y*13), 0xff}
}

// Synthesize builds the buffer an adapter rotated by angle would map for a
// width x height desktop whose logical pixel (x, y) is fill(x, y). Each
// physical row carries padPixels pixels of padding.
func Synthesize(width, height int, angle frame.Rotation, padPixels int, fill func(x, y int) [4]byte) (Descriptor, []byte, error) {
	physCols, physRows := width, height
	switch angle {
	case frame.Rotate0, frame.Rotate180:
	case frame.Rotate90, frame.Rotate270:
		physCols, physRows = height, width
	default:
		return Descriptor{}, nil, &frame.RotationError{Angle: int(angle)}
	}

	pitch := (physCols + padPixels) * 4
	buf := make([]byte, pitch*physRows)
	for i := range buf {
		buf[i] = PadByte
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, c int
			switch angle {
			case frame.Rotate0:
				r, c = y, x
			case frame.Rotate90:
				r, c = width-1-x, y
			case frame.Rotate180:
				r, c = height-1-y, width-1-x
			case frame.Rotate270:
				r, c = x, height-1-y
			}
			px := fill(x, y)
			copy(buf[r*pitch+c*4:], px[:])
		}
	}

	d := Descriptor{
		Width:    width,
		Height:   height,
		Pitch:    pitch,
		Rotation: int(angle),
		Format:   FormatBGRA,
	}
	return d, buf, nil
}
