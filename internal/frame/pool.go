package frame

import "sync"

// maxPooledShapes bounds how many distinct output shapes keep a pool.
const maxPooledShapes = 8

type imageShape struct {
	rows, cols, ch int
}

// imagePool pools output pixel buffers per shape. Callers processing
// different regions concurrently each get their own sync.Pool, and every
// pooled image is re-checked before reuse.
type imagePool struct {
	mu    sync.Mutex
	pools map[imageShape]*sync.Pool
}

func (p *imagePool) lookup(s imageShape) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if sp, ok := p.pools[s]; ok {
		return sp
	}
	if p.pools == nil || len(p.pools) >= maxPooledShapes {
		p.pools = make(map[imageShape]*sync.Pool)
	}
	sp := &sync.Pool{}
	p.pools[s] = sp
	return sp
}

func (p *imagePool) Get(rows, cols, ch int) *Image {
	s := imageShape{rows, cols, ch}
	if v := p.lookup(s).Get(); v != nil {
		img := v.(*Image)
		if img.shape() == s && len(img.Pix) == rows*cols*ch {
			return img
		}
	}
	return newImage(rows, cols, ch)
}

func (p *imagePool) Put(img *Image) {
	if len(img.Pix) != img.Rows*img.Cols*img.Channels {
		return
	}
	p.lookup(img.shape()).Put(img)
}

func (m *Image) shape() imageShape {
	return imageShape{m.Rows, m.Cols, m.Channels}
}

func newImage(rows, cols, ch int) *Image {
	return &Image{
		Pix:      make([]byte, rows*cols*ch),
		Rows:     rows,
		Cols:     cols,
		Channels: ch,
	}
}

var outputPool imagePool

// ReleaseImage hands img back for reuse by later Process calls.
// img must not be used afterwards.
func ReleaseImage(img *Image) {
	if img != nil {
		outputPool.Put(img)
	}
}
