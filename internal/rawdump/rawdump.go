// Package rawdump stores captured surfaces on disk so they can be replayed
// through the frame processor. A dump is a YAML descriptor next to a file of
// raw BGRA rows exactly as the adapter mapped them, pitch padding included.
package rawdump

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ninjatall12/DXcam/internal/frame"
	"github.com/ninjatall12/DXcam/internal/logging"
)

var log = logging.L("rawdump")

// FormatBGRA is the only pixel format desktop duplication hands out.
const FormatBGRA = "BGRA"

// ErrBadDescriptor is returned when a descriptor is missing fields or inconsistent.
var ErrBadDescriptor = errors.New("bad dump descriptor")

// Descriptor describes one captured surface. Width and Height are the
// logical desktop size; Rotation is the adapter rotation in degrees.
// DXGIRotation, when set, is the raw DXGI_MODE_ROTATION reported by the
// output and takes precedence over Rotation.
type Descriptor struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	Pitch        int    `yaml:"pitch"`
	Rotation     int    `yaml:"rotation"`
	DXGIRotation uint32 `yaml:"dxgi_rotation,omitempty"`
	Format       string `yaml:"format"`
	Data         string `yaml:"data"`
}

// Angle returns the rotation as a frame.Rotation.
func (d Descriptor) Angle() frame.Rotation {
	if d.DXGIRotation != 0 {
		if r, err := frame.RotationFromDXGI(d.DXGIRotation); err == nil {
			return r
		}
	}
	return frame.Rotation(d.Rotation)
}

// Validate checks the fields a dump needs before its pixels are read.
func (d Descriptor) Validate() error {
	switch {
	case d.Width <= 0 || d.Height <= 0:
		return fmt.Errorf("%w: dimensions %dx%d", ErrBadDescriptor, d.Width, d.Height)
	case d.Pitch <= 0:
		return fmt.Errorf("%w: pitch %d", ErrBadDescriptor, d.Pitch)
	case d.Format != "" && !strings.EqualFold(d.Format, FormatBGRA):
		return fmt.Errorf("%w: format %q, only %s is supported", ErrBadDescriptor, d.Format, FormatBGRA)
	case d.Data == "":
		return fmt.Errorf("%w: no data file", ErrBadDescriptor)
	}
	if d.DXGIRotation != 0 {
		r, err := frame.RotationFromDXGI(d.DXGIRotation)
		if err != nil {
			return fmt.Errorf("%w: dxgi_rotation %d", ErrBadDescriptor, d.DXGIRotation)
		}
		if d.Rotation != 0 && frame.Rotation(d.Rotation) != r {
			return fmt.Errorf("%w: rotation %d disagrees with dxgi_rotation %d", ErrBadDescriptor, d.Rotation, d.DXGIRotation)
		}
	}
	return nil
}

// Dump is an opened dump whose pixels stay mapped until Close.
type Dump struct {
	Descriptor
	Path string

	bits  []byte
	unmap func() error
}

// Open reads the descriptor at path and maps its pixel file read-only.
func Open(path string) (*Dump, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	var d Descriptor
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDescriptor, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	dataPath := d.Data
	if !filepath.IsAbs(dataPath) {
		dataPath = filepath.Join(filepath.Dir(path), dataPath)
	}
	bits, unmap, err := mapFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", dataPath, err)
	}

	log.Debug("dump mapped", logging.KeyFile, path, "bytes", len(bits),
		"width", d.Width, "height", d.Height, "pitch", d.Pitch, logging.KeyRotation, int(d.Angle()))

	return &Dump{Descriptor: d, Path: path, bits: bits, unmap: unmap}, nil
}

// Frame returns the mapped surface. It is only valid until Close.
func (d *Dump) Frame() frame.RawFrame {
	return frame.RawFrame{Bits: d.bits, Pitch: d.Pitch}
}

// Close unmaps the pixels. It is safe to call more than once.
func (d *Dump) Close() error {
	if d.unmap == nil {
		return nil
	}
	err := d.unmap()
	d.unmap = nil
	d.bits = nil
	return err
}

// Write stores pix under dir as <name>.bgra with a <name>.yaml descriptor and
// returns the descriptor path. d.Data is overwritten.
func Write(dir, name string, d Descriptor, pix []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	d.Data = name + ".bgra"
	if d.Format == "" {
		d.Format = FormatBGRA
	}
	if err := d.Validate(); err != nil {
		return "", err
	}
	if need := d.Pitch * physicalRows(d); len(pix) < need {
		return "", fmt.Errorf("%w: %d bytes of pixels, pitch %d needs %d", ErrBadDescriptor, len(pix), d.Pitch, need)
	}

	if err := os.WriteFile(filepath.Join(dir, d.Data), pix, 0o644); err != nil {
		return "", err
	}
	out, err := yaml.Marshal(&d)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+".yaml")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// physicalRows is the row count of the adapter's buffer, which has the
// desktop's axes swapped for 90 and 270.
func physicalRows(d Descriptor) int {
	if a := d.Angle(); a == frame.Rotate90 || a == frame.Rotate270 {
		return d.Width
	}
	return d.Height
}
