package frame

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// bytesPerPixel is fixed by the adapter's packed B8G8R8A8 surface format.
const bytesPerPixel = 4

// RawFrame is a mapped capture surface borrowed from the capture subsystem.
// Bits must stay mapped and unmodified until Process returns.
type RawFrame struct {
	Bits  []byte
	Pitch int // bytes from the start of one row to the next
}

// Region is a sub-rectangle in logical coordinates. Right and Bottom are exclusive.
type Region struct {
	Left, Top, Right, Bottom int
}

// FullRegion returns the region covering a whole width x height surface.
func FullRegion(width, height int) Region {
	return Region{Right: width, Bottom: height}
}

func (r Region) Dx() int { return r.Right - r.Left }
func (r Region) Dy() int { return r.Bottom - r.Top }

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// ParseRegion parses "left,top,right,bottom".
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("region %q: want left,top,right,bottom", s)
	}
	var v [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Region{}, fmt.Errorf("region %q: coordinate %d: %w", s, i, err)
		}
		v[i] = n
	}
	return Region{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}, nil
}

// Rotation is how far the adapter rotated the physical buffer, in degrees.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// RotationFromDXGI maps a DXGI_MODE_ROTATION value
// (0=unspecified, 1=identity, 2=90, 3=180, 4=270).
func RotationFromDXGI(v uint32) (Rotation, error) {
	switch v {
	case 0, 1:
		return Rotate0, nil
	case 2:
		return Rotate90, nil
	case 3:
		return Rotate180, nil
	case 4:
		return Rotate270, nil
	}
	return 0, &RotationError{Angle: int(v)}
}

// ColorMode selects the output channel layout.
type ColorMode int

const (
	ColorNative ColorMode = iota
	ColorBGRA
	ColorRGB
	ColorRGBA
	ColorBGR
	ColorGray
)

var colorModeNames = [...]string{
	ColorNative: "NATIVE",
	ColorBGRA:   "BGRA",
	ColorRGB:    "RGB",
	ColorRGBA:   "RGBA",
	ColorBGR:    "BGR",
	ColorGray:   "GRAY",
}

func (m ColorMode) String() string {
	if m.valid() {
		return colorModeNames[m]
	}
	return fmt.Sprintf("ColorMode(%d)", int(m))
}

func (m ColorMode) valid() bool {
	return m >= ColorNative && m <= ColorGray
}

// Channels returns the channel count of images produced in mode m.
func (m ColorMode) Channels() int {
	switch m {
	case ColorRGB, ColorBGR:
		return 3
	case ColorGray:
		return 1
	default:
		return bytesPerPixel
	}
}

// ParseColorMode accepts the mode names case-insensitively. An empty string is NATIVE.
func ParseColorMode(s string) (ColorMode, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "" {
		return ColorNative, nil
	}
	for m, n := range colorModeNames {
		if n == name {
			return ColorMode(m), nil
		}
	}
	return 0, &ColorModeError{Name: s}
}

// Image is a packed row-major [Rows][Cols][Channels] pixel array in logical orientation.
type Image struct {
	Pix      []byte
	Rows     int
	Cols     int
	Channels int
	Mode     ColorMode
}

// Shape returns (rows, cols, channels).
func (m *Image) Shape() (int, int, int) {
	return m.Rows, m.Cols, m.Channels
}

// At returns the channels of the pixel at (row, col). The slice aliases Pix.
func (m *Image) At(row, col int) []byte {
	off := (row*m.Cols + col) * m.Channels
	return m.Pix[off : off+m.Channels : off+m.Channels]
}

// ToImage copies m into a standard library image for encoding.
func (m *Image) ToImage() image.Image {
	rect := image.Rect(0, 0, m.Cols, m.Rows)
	if m.Mode == ColorGray {
		g := image.NewGray(rect)
		copy(g.Pix, m.Pix)
		return g
	}

	out := image.NewNRGBA(rect)
	for i, o := 0, 0; i < len(m.Pix); i, o = i+m.Channels, o+4 {
		px := m.Pix[i : i+m.Channels]
		switch m.Mode {
		case ColorRGB:
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = px[0], px[1], px[2], 0xff
		case ColorRGBA:
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = px[0], px[1], px[2], px[3]
		case ColorBGR:
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = px[2], px[1], px[0], 0xff
		default:
			// Desktop duplication leaves alpha undefined; treat as opaque.
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = px[2], px[1], px[0], 0xff
		}
	}
	return out
}
