package frame

// orientation describes how one adapter rotation is undone.
type orientation struct {
	angle Rotation

	// swapped is set when physical rows run along the logical x axis
	// (90/270). The band then selects logical columns instead of rows.
	swapped bool

	// bandStart returns the first physical row that can hold region pixels.
	bandStart func(width, height int, r Region) int

	// turn rotates the physical view into logical orientation.
	turn func(view) view

	// padLeading is set when the pitch padding, which trails every physical
	// row, ends up before the image content once turned.
	padLeading bool
}

var orientations = [...]orientation{
	{
		angle:     Rotate0,
		bandStart: func(_, _ int, r Region) int { return r.Top },
		turn:      func(v view) view { return v },
	},
	{
		angle:     Rotate90,
		swapped:   true,
		bandStart: func(width, _ int, r Region) int { return width - r.Right },
		turn:      view.rotateCW,
	},
	{
		angle:      Rotate180,
		bandStart:  func(_, height int, r Region) int { return height - r.Bottom },
		turn:       view.rotateHalf,
		padLeading: true,
	},
	{
		angle:      Rotate270,
		swapped:    true,
		bandStart:  func(_, _ int, r Region) int { return r.Left },
		turn:       view.rotateCCW,
		padLeading: true,
	},
}

func lookupOrientation(angle Rotation) (orientation, error) {
	if angle < 0 || angle%90 != 0 || int(angle/90) >= len(orientations) {
		return orientation{}, &RotationError{Angle: int(angle)}
	}
	return orientations[angle/90], nil
}

// physicalSize returns the physical buffer's pixels per row and row count.
func (o orientation) physicalSize(width, height int) (cols, rows int) {
	if o.swapped {
		return height, width
	}
	return width, height
}

// bandRows returns how many physical rows the band spans.
func (o orientation) bandRows(r Region) int {
	if o.swapped {
		return r.Dx()
	}
	return r.Dy()
}

// trimPadding drops the pitch padding from the turned view, leaving
// exactly width columns (0/180) or height rows (90/270).
func (o orientation) trimPadding(v view, width, height int) view {
	if o.swapped {
		if v.rows <= height {
			return v
		}
		if o.padLeading {
			return v.sliceRows(v.rows-height, v.rows)
		}
		return v.sliceRows(0, height)
	}
	if v.cols <= width {
		return v
	}
	if o.padLeading {
		return v.sliceCols(v.cols-width, v.cols)
	}
	return v.sliceCols(0, width)
}
