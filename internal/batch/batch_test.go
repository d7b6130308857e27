package batch

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ninjatall12/DXcam/internal/frame"
	"github.com/ninjatall12/DXcam/internal/rawdump"
	"github.com/ninjatall12/DXcam/internal/workerpool"
)

func writeDump(t *testing.T, dir, name string, w, h int, angle frame.Rotation) string {
	t.Helper()
	d, pix, err := rawdump.Synthesize(w, h, angle, 3, rawdump.Pattern)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	path, err := rawdump.Write(dir, name, d, pix)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	return path
}

func newRunner(t *testing.T, mode frame.ColorMode, out string) *Runner {
	t.Helper()
	p, err := frame.New(mode)
	if err != nil {
		t.Fatalf("frame.New: %v", err)
	}
	pool := workerpool.New(2, 2)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool.Shutdown(ctx)
	})
	return &Runner{Processor: p, Pool: pool, OutputDir: out}
}

func TestRunWritesPNGPerDump(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	var paths []string
	for i, angle := range []frame.Rotation{frame.Rotate0, frame.Rotate90, frame.Rotate180, frame.Rotate270} {
		paths = append(paths, writeDump(t, in, "frame-"+string(rune('a'+i)), 12, 8, angle))
	}

	results := newRunner(t, frame.ColorNative, out).Run(context.Background(), paths)
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("%s: %v", res.Input, res.Err)
		}
		if res.Input != paths[i] {
			t.Fatalf("result %d is for %s, want %s", i, res.Input, paths[i])
		}
		if res.Rows != 8 || res.Cols != 12 || res.Channels != 4 {
			t.Fatalf("%s: shape = (%d,%d,%d)", res.Input, res.Rows, res.Cols, res.Channels)
		}

		f, err := os.Open(res.Output)
		if err != nil {
			t.Fatalf("open output: %v", err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", res.Output, err)
		}
		if img.Bounds() != image.Rect(0, 0, 12, 8) {
			t.Fatalf("%s: bounds = %v", res.Output, img.Bounds())
		}
		// Pattern stores x in blue and y in green.
		_, g, b, _ := img.At(5, 3).RGBA()
		if b>>8 != 5 || g>>8 != 3 {
			t.Fatalf("%s: pixel (5,3) decoded as g=%d b=%d", res.Output, g>>8, b>>8)
		}
	}
}

func TestRunAppliesRegionAndKeepsGoingAfterFailure(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	good := writeDump(t, in, "good", 20, 10, frame.Rotate90)
	missing := filepath.Join(in, "missing.yaml")

	r := newRunner(t, frame.ColorGray, out)
	r.Region = &frame.Region{Left: 2, Top: 1, Right: 12, Bottom: 9}

	results := r.Run(context.Background(), []string{missing, good})
	if results[0].Err == nil {
		t.Fatal("missing dump should fail")
	}
	if results[1].Err != nil {
		t.Fatalf("good dump failed: %v", results[1].Err)
	}
	if results[1].Rows != 8 || results[1].Cols != 10 || results[1].Channels != 1 {
		t.Fatalf("shape = (%d,%d,%d), want (8,10,1)", results[1].Rows, results[1].Cols, results[1].Channels)
	}
}

func TestRunReportsProcessorErrors(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	path := writeDump(t, in, "small", 8, 8, frame.Rotate0)

	r := newRunner(t, frame.ColorNative, out)
	r.Region = &frame.Region{Left: 0, Top: 0, Right: 9, Bottom: 8}

	res := r.Run(context.Background(), []string{path})[0]
	if !errors.Is(res.Err, frame.ErrRegionOutOfBounds) {
		t.Fatalf("err = %v, want ErrRegionOutOfBounds", res.Err)
	}
	if res.Output != "" {
		t.Fatalf("no output expected on failure, got %s", res.Output)
	}
}

func TestRunAfterPoolShutdownIsNotScheduled(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	path := writeDump(t, in, "late", 4, 4, frame.Rotate0)

	r := newRunner(t, frame.ColorNative, out)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.Pool.Shutdown(ctx)

	res := r.Run(context.Background(), []string{path})[0]
	if !errors.Is(res.Err, ErrNotScheduled) {
		t.Fatalf("err = %v, want ErrNotScheduled", res.Err)
	}
}

type panickingProcessor struct{}

func (panickingProcessor) Process(frame.RawFrame, int, int, frame.Region, frame.Rotation) (*frame.Image, error) {
	panic("processor blew up")
}

func TestRunReportsPanickedDump(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	path := writeDump(t, in, "boom", 4, 4, frame.Rotate0)

	r := newRunner(t, frame.ColorNative, out)
	r.Processor = panickingProcessor{}

	res := r.Run(context.Background(), []string{path})[0]
	if !errors.Is(res.Err, ErrPanicked) {
		t.Fatalf("err = %v, want ErrPanicked", res.Err)
	}
	if res.Input != path {
		t.Fatalf("Input = %s, want %s", res.Input, path)
	}
	if res.Output != "" {
		t.Fatalf("no output expected after a panic, got %s", res.Output)
	}
}
