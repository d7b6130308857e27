// Package batch replays raw frame dumps through a frame processor on a
// worker pool and writes each result as a PNG.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ninjatall12/DXcam/internal/frame"
	"github.com/ninjatall12/DXcam/internal/logging"
	"github.com/ninjatall12/DXcam/internal/rawdump"
	"github.com/ninjatall12/DXcam/internal/workerpool"
)

var (
	// ErrNotScheduled is returned for dumps the pool refused before they ran.
	ErrNotScheduled = errors.New("dump not scheduled")
	// ErrPanicked is reported for dumps whose processing panicked.
	ErrPanicked = errors.New("dump processing panicked")
)

// Runner processes dumps concurrently. Processor must be safe for concurrent use.
type Runner struct {
	Processor frame.FrameProcessor
	Pool      *workerpool.Pool
	OutputDir string
	Region    *frame.Region // nil means the whole surface
}

// Result is the outcome for one dump.
type Result struct {
	Input    string
	Output   string
	Rows     int
	Cols     int
	Channels int
	Duration time.Duration
	Err      error
}

// Run processes every path and returns results in input order. A failed dump
// does not stop the others. Logging goes through the logger carried by ctx.
func (r *Runner) Run(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	base := logging.FromContext(ctx)
	var wg sync.WaitGroup

	for i, path := range paths {
		i, path := i, path
		// Stays in place if the task panics; the pool recovers it.
		results[i] = Result{Input: path, Err: ErrPanicked}
		wg.Add(1)
		ok := r.Pool.SubmitWait(ctx, func() {
			defer wg.Done()
			results[i] = r.processOne(base, path)
		})
		if !ok {
			wg.Done()
			err := ErrNotScheduled
			if ctx.Err() != nil {
				err = fmt.Errorf("%w: %w", ErrNotScheduled, ctx.Err())
			}
			results[i] = Result{Input: path, Err: err}
		}
	}

	wg.Wait()
	return results
}

func (r *Runner) processOne(base *slog.Logger, path string) Result {
	res := Result{Input: path}
	logger := logging.WithFile(base, path)
	start := time.Now()

	img, err := r.process(path)
	if err != nil {
		res.Err = err
		logger.Warn("dump failed", logging.KeyError, err)
		return res
	}
	defer frame.ReleaseImage(img)

	res.Rows, res.Cols, res.Channels = img.Shape()
	res.Output = filepath.Join(r.OutputDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".png")
	if err := WritePNG(res.Output, img); err != nil {
		res.Err = err
		logger.Warn("encode failed", logging.KeyError, err)
		return res
	}

	res.Duration = time.Since(start)
	logger.Info("dump processed",
		"output", res.Output,
		"rows", res.Rows,
		"cols", res.Cols,
		"channels", res.Channels,
		logging.KeyDurationMs, res.Duration.Milliseconds(),
	)
	return res
}

// process keeps the dump mapped exactly as long as the processor reads it.
func (r *Runner) process(path string) (*frame.Image, error) {
	dump, err := rawdump.Open(path)
	if err != nil {
		return nil, err
	}
	defer dump.Close()

	region := frame.FullRegion(dump.Width, dump.Height)
	if r.Region != nil {
		region = *r.Region
	}

	img, err := r.Processor.Process(dump.Frame(), dump.Width, dump.Height, region, dump.Angle())
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", path, err)
	}
	return img, nil
}

// WritePNG encodes img to path, creating parent directories.
func WritePNG(path string, img *frame.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
