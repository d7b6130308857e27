package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedColorMode is returned when a processor is configured with an unknown color mode.
	ErrUnsupportedColorMode = errors.New("unsupported color mode")

	// ErrInvalidPitch is returned when the row pitch cannot describe a packed 4-byte surface.
	ErrInvalidPitch = errors.New("invalid pitch")

	// ErrRegionOutOfBounds is returned when the region is empty or leaves the surface.
	ErrRegionOutOfBounds = errors.New("region out of bounds")

	// ErrUnsupportedRotationAngle is returned for angles other than 0, 90, 180 and 270.
	ErrUnsupportedRotationAngle = errors.New("unsupported rotation angle")

	// ErrShortBuffer is returned when the borrowed buffer is smaller than the selected band.
	ErrShortBuffer = errors.New("frame buffer too short")
)

// ColorModeError reports the mode that failed validation.
type ColorModeError struct {
	Mode ColorMode
	Name string // set when parsing from text
}

func (e *ColorModeError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %q", ErrUnsupportedColorMode, e.Name)
	}
	return fmt.Sprintf("%s: %s", ErrUnsupportedColorMode, e.Mode)
}

func (e *ColorModeError) Unwrap() error { return ErrUnsupportedColorMode }

// PitchError reports a pitch that is misaligned or narrower than one physical row.
type PitchError struct {
	Pitch    int
	RowBytes int
}

func (e *PitchError) Error() string {
	if e.Pitch%bytesPerPixel != 0 {
		return fmt.Sprintf("%s: %d is not a multiple of %d", ErrInvalidPitch, e.Pitch, bytesPerPixel)
	}
	return fmt.Sprintf("%s: %d is smaller than row size %d", ErrInvalidPitch, e.Pitch, e.RowBytes)
}

func (e *PitchError) Unwrap() error { return ErrInvalidPitch }

// RegionError reports a region that does not fit the surface.
type RegionError struct {
	Region        Region
	Width, Height int
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("%s: %s on %dx%d surface", ErrRegionOutOfBounds, e.Region, e.Width, e.Height)
}

func (e *RegionError) Unwrap() error { return ErrRegionOutOfBounds }

// RotationError reports the rejected angle.
type RotationError struct {
	Angle int
}

func (e *RotationError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnsupportedRotationAngle, e.Angle)
}

func (e *RotationError) Unwrap() error { return ErrUnsupportedRotationAngle }

// BufferError reports the byte range the band needed.
type BufferError struct {
	Offset, Need, Have int
}

func (e *BufferError) Error() string {
	return fmt.Sprintf("%s: band at offset %d needs %d bytes, have %d", ErrShortBuffer, e.Offset, e.Need, e.Have)
}

func (e *BufferError) Unwrap() error { return ErrShortBuffer }
