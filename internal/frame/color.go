package frame

// Fixed-point BT.601 luma weights, 14-bit, as used by the reference BGRA->GRAY path.
const (
	grayShift = 14
	grayR     = 4899
	grayG     = 9617
	grayB     = 1868
	grayRound = 1 << (grayShift - 1)
)

// converter maps native BGRA pixels to the configured layout. It is chosen
// once by newConverter and never changes.
type converter struct {
	mode     ColorMode
	identity bool
}

func newConverter(mode ColorMode) (converter, error) {
	switch mode {
	case ColorNative, ColorBGRA:
		return converter{mode: mode, identity: true}, nil
	case ColorRGB, ColorRGBA, ColorBGR, ColorGray:
		return converter{mode: mode}, nil
	default:
		return converter{}, &ColorModeError{Mode: mode}
	}
}

func (c converter) channels() int {
	return c.mode.Channels()
}

// convert returns src unchanged for identity modes, otherwise a new packed
// view with the same rows and columns. src is never written.
func (c converter) convert(src view) view {
	if c.identity {
		return src
	}

	ch := c.channels()
	out := newView(make([]byte, src.rows*src.cols*ch), src.rows, src.cols, ch)
	for r := 0; r < src.rows; r++ {
		dst, _ := out.row(r)
		if row, ok := src.row(r); ok {
			c.convertRow(dst, row)
			continue
		}
		for col := 0; col < src.cols; col++ {
			c.convertRow(dst[col*ch:(col+1)*ch], src.pixel(r, col))
		}
	}
	return out
}

// convertRow converts packed BGRA bytes in src into dst. B=pi+0, G=pi+1, R=pi+2, A=pi+3.
func (c converter) convertRow(dst, src []byte) {
	n := len(src) / bytesPerPixel
	switch c.mode {
	case ColorRGB:
		for x := 0; x < n; x++ {
			pi, po := x*4, x*3
			dst[po], dst[po+1], dst[po+2] = src[pi+2], src[pi+1], src[pi]
		}
	case ColorRGBA:
		for x := 0; x < n; x++ {
			pi := x * 4
			dst[pi], dst[pi+1], dst[pi+2], dst[pi+3] = src[pi+2], src[pi+1], src[pi], src[pi+3]
		}
	case ColorBGR:
		for x := 0; x < n; x++ {
			pi, po := x*4, x*3
			dst[po], dst[po+1], dst[po+2] = src[pi], src[pi+1], src[pi+2]
		}
	case ColorGray:
		for x := 0; x < n; x++ {
			pi := x * 4
			dst[x] = byte((grayB*int(src[pi]) + grayG*int(src[pi+1]) + grayR*int(src[pi+2]) + grayRound) >> grayShift)
		}
	case ColorNative, ColorBGRA:
		copy(dst, src)
	}
}

// Luma returns the gray value produced for one BGRA pixel.
func Luma(b, g, r byte) byte {
	return byte((grayB*int(b) + grayG*int(g) + grayR*int(r) + grayRound) >> grayShift)
}
