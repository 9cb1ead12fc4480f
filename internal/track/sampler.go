package track

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// ErrEmptyFrame is returned when the sampler is handed a nil or empty frame.
var ErrEmptyFrame = errors.New("empty source frame")

// AnalysisFrame is a small downsampled snapshot of the source frame.
// Pix is an interleaved pixel buffer owned by the frame; the motion
// detector reads it directly so the hot loop never touches gocv.
type AnalysisFrame struct {
	Pix      []byte
	Width    int
	Height   int
	Channels int
}

// clone copies the frame into dst, reusing dst's buffer when it is
// already the right size.
func (f *AnalysisFrame) clone(dst *AnalysisFrame) {
	if cap(dst.Pix) < len(f.Pix) {
		dst.Pix = make([]byte, len(f.Pix))
	}
	dst.Pix = dst.Pix[:len(f.Pix)]
	copy(dst.Pix, f.Pix)
	dst.Width = f.Width
	dst.Height = f.Height
	dst.Channels = f.Channels
}

// FrameSampler produces fixed-width analysis frames from full-resolution
// source frames via a single scaled copy. The scaled Mat and the output
// pixel buffer are reused across calls and only reallocated when the
// source dimensions change.
type FrameSampler struct {
	width  int
	scaled gocv.Mat
	frame  AnalysisFrame
}

// NewFrameSampler creates a FrameSampler emitting frames of the given
// fixed width. Height follows the source aspect ratio.
func NewFrameSampler(width int) *FrameSampler {
	return &FrameSampler{
		width:  width,
		scaled: gocv.NewMat(),
	}
}

// Sample downscales src into the sampler's analysis frame. The returned
// frame is owned by the sampler and valid until the next Sample call.
func (s *FrameSampler) Sample(src *gocv.Mat) (*AnalysisFrame, error) {
	if src == nil || src.Empty() {
		return nil, ErrEmptyFrame
	}

	srcW := src.Cols()
	srcH := src.Rows()
	if srcW <= 0 || srcH <= 0 {
		return nil, ErrEmptyFrame
	}

	h := srcH * s.width / srcW
	if h < 1 {
		h = 1
	}

	gocv.Resize(*src, &s.scaled, image.Point{X: s.width, Y: h}, 0, 0, gocv.InterpolationArea)

	data, err := s.scaled.DataPtrUint8()
	if err != nil {
		return nil, err
	}

	ch := s.scaled.Channels()
	need := s.width * h * ch
	if cap(s.frame.Pix) < need {
		s.frame.Pix = make([]byte, need)
	}
	s.frame.Pix = s.frame.Pix[:need]
	copy(s.frame.Pix, data[:need])
	s.frame.Width = s.width
	s.frame.Height = h
	s.frame.Channels = ch

	return &s.frame, nil
}

// Close releases the sampler's scaled Mat.
func (s *FrameSampler) Close() {
	s.scaled.Close()
}
