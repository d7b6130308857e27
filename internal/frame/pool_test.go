package frame

import (
	"sync"
	"testing"
)

func TestImagePoolMixedShapesConcurrently(t *testing.T) {
	var pool imagePool
	shapes := []imageShape{{6, 8, 4}, {9, 12, 4}, {9, 12, 1}, {3, 5, 3}}

	var wg sync.WaitGroup
	errs := make(chan imageShape, 64)
	for g := 0; g < 8; g++ {
		g := g
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				s := shapes[(g+i)%len(shapes)]
				img := pool.Get(s.rows, s.cols, s.ch)
				if img.shape() != s || len(img.Pix) != s.rows*s.cols*s.ch {
					select {
					case errs <- img.shape():
					default:
					}
				}
				pool.Put(img)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Fatalf("pool returned an image shaped %+v for a different request", got)
	}
}

func TestImagePoolDiscardsTamperedImages(t *testing.T) {
	var pool imagePool
	img := pool.Get(2, 2, 4)
	img.Pix = img.Pix[:4]
	pool.Put(img)

	if got := pool.Get(2, 2, 4); len(got.Pix) != 16 {
		t.Fatalf("len(Pix) = %d, want 16", len(got.Pix))
	}
}

func TestImagePoolBoundsShapeCount(t *testing.T) {
	var pool imagePool
	for i := 1; i <= maxPooledShapes*3; i++ {
		pool.Put(pool.Get(i, 1, 1))
	}
	pool.mu.Lock()
	n := len(pool.pools)
	pool.mu.Unlock()
	if n > maxPooledShapes {
		t.Fatalf("%d shapes pooled, want at most %d", n, maxPooledShapes)
	}
}
