package frame

import (
	"github.com/ninjatall12/DXcam/internal/logging"
)

var log = logging.L("frame")

// FrameProcessor turns one captured surface into a logically oriented image.
type FrameProcessor interface {
	Process(raw RawFrame, width, height int, region Region, angle Rotation) (*Image, error)
}

// Band is the run of physical rows a Process call reads.
type Band struct {
	Offset      int // byte offset of the first row in RawFrame.Bits
	Length      int // bytes read starting at Offset
	Rows        int
	PitchPixels int
	RowPixels   int // pixels of image data per physical row, the rest is padding
}

// Processor reshapes captured BGRA buffers. It holds no per-frame state and
// is safe for concurrent use on distinct frames.
type Processor struct {
	mode ColorMode
	conv converter
}

var _ FrameProcessor = (*Processor)(nil)

// New returns a processor emitting images in mode.
func New(mode ColorMode) (*Processor, error) {
	conv, err := newConverter(mode)
	if err != nil {
		return nil, err
	}
	log.Debug("frame processor configured", "colorMode", mode.String(), "channels", mode.Channels())
	return &Processor{mode: mode, conv: conv}, nil
}

// Mode returns the configured output layout.
func (p *Processor) Mode() ColorMode {
	return p.mode
}

// Plan validates the call and returns the band Process would read, without touching pixels.
func (p *Processor) Plan(raw RawFrame, width, height int, region Region, angle Rotation) (Band, error) {
	band, _, err := plan(raw, width, height, region, angle)
	return band, err
}

func plan(raw RawFrame, width, height int, region Region, angle Rotation) (Band, orientation, error) {
	o, err := lookupOrientation(angle)
	if err != nil {
		return Band{}, o, err
	}

	if region.Left < 0 || region.Top < 0 ||
		region.Left >= region.Right || region.Top >= region.Bottom ||
		region.Right > width || region.Bottom > height {
		return Band{}, o, &RegionError{Region: region, Width: width, Height: height}
	}

	rowPixels, _ := o.physicalSize(width, height)
	pitch := raw.Pitch
	if pitch <= 0 || pitch%bytesPerPixel != 0 || pitch < rowPixels*bytesPerPixel {
		return Band{}, o, &PitchError{Pitch: pitch, RowBytes: rowPixels * bytesPerPixel}
	}

	band := Band{
		Offset:      o.bandStart(width, height, region) * pitch,
		Rows:        o.bandRows(region),
		PitchPixels: pitch / bytesPerPixel,
		RowPixels:   rowPixels,
	}
	band.Length = band.Rows * pitch
	if band.Offset+band.Length > len(raw.Bits) {
		return Band{}, o, &BufferError{Offset: band.Offset, Need: band.Length, Have: len(raw.Bits)}
	}
	return band, o, nil
}

// Process crops region out of raw and returns it in logical orientation and
// the configured color mode. width and height are the logical surface size
// the region is expressed in; angle is the rotation the adapter applied.
// The result never aliases raw.Bits.
func (p *Processor) Process(raw RawFrame, width, height int, region Region, angle Rotation) (*Image, error) {
	band, o, err := plan(raw, width, height, region, angle)
	if err != nil {
		return nil, err
	}

	end := band.Offset + band.Length
	v := newView(raw.Bits[band.Offset:end:end], band.Rows, band.PitchPixels, bytesPerPixel)
	v = p.conv.convert(v)
	v = o.turn(v)
	v = o.trimPadding(v, width, height)

	// The band only narrowed one logical axis; crop the other.
	if v.rows != region.Dy() {
		v = v.sliceRows(region.Top, region.Bottom)
	}
	if v.cols != region.Dx() {
		v = v.sliceCols(region.Left, region.Right)
	}

	img := outputPool.Get(v.rows, v.cols, v.ch)
	img.Mode = p.mode
	v.materialize(img.Pix)
	return img, nil
}
