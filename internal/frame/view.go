package frame

// view is a strided [rows][cols][ch] window over a byte slice. Quarter turns
// and crops only rewrite the offset and strides; data is copied once, by
// materialize. Every element address stays inside data, so a bad stride
// panics on a slice bound instead of reading past the borrowed buffer.
type view struct {
	data      []byte
	off       int
	rows      int
	cols      int
	ch        int
	rowStride int // bytes, negative after a flip
	colStride int
}

// newView interprets data as rows of pitchPixels packed pixels.
func newView(data []byte, rows, pitchPixels, ch int) view {
	return view{
		data:      data,
		rows:      rows,
		cols:      pitchPixels,
		ch:        ch,
		rowStride: pitchPixels * ch,
		colStride: ch,
	}
}

func (v view) pixel(row, col int) []byte {
	p := v.off + row*v.rowStride + col*v.colStride
	return v.data[p : p+v.ch]
}

// row returns the bytes of a row when pixels in it are packed left to right.
func (v view) row(r int) ([]byte, bool) {
	if v.colStride != v.ch {
		return nil, false
	}
	p := v.off + r*v.rowStride
	return v.data[p : p+v.cols*v.ch], true
}

// rotateCW turns the view a quarter clockwise: out[i][j] = in[rows-1-j][i].
func (v view) rotateCW() view {
	return view{
		data:      v.data,
		off:       v.off + (v.rows-1)*v.rowStride,
		rows:      v.cols,
		cols:      v.rows,
		ch:        v.ch,
		rowStride: v.colStride,
		colStride: -v.rowStride,
	}
}

// rotateCCW turns the view a quarter counter-clockwise: out[i][j] = in[j][cols-1-i].
func (v view) rotateCCW() view {
	return view{
		data:      v.data,
		off:       v.off + (v.cols-1)*v.colStride,
		rows:      v.cols,
		cols:      v.rows,
		ch:        v.ch,
		rowStride: -v.colStride,
		colStride: v.rowStride,
	}
}

// rotateHalf turns the view by 180 degrees.
func (v view) rotateHalf() view {
	v.off += (v.rows-1)*v.rowStride + (v.cols-1)*v.colStride
	v.rowStride = -v.rowStride
	v.colStride = -v.colStride
	return v
}

// sliceRows keeps rows [from, to).
func (v view) sliceRows(from, to int) view {
	v.off += from * v.rowStride
	v.rows = to - from
	return v
}

// sliceCols keeps columns [from, to).
func (v view) sliceCols(from, to int) view {
	v.off += from * v.colStride
	v.cols = to - from
	return v
}

// materialize copies the view into dst, packed row-major. dst must hold rows*cols*ch bytes.
func (v view) materialize(dst []byte) {
	rowBytes := v.cols * v.ch
	for r := 0; r < v.rows; r++ {
		out := dst[r*rowBytes : (r+1)*rowBytes]
		if src, ok := v.row(r); ok {
			copy(out, src)
			continue
		}
		for c := 0; c < v.cols; c++ {
			copy(out[c*v.ch:], v.pixel(r, c))
		}
	}
}
