// Package render extracts and scales the stabilized crop window from
// full-resolution source frames.
package render

import (
	"errors"
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/reframe/internal/track"
)

// PortraitRatio is the target aspect ratio of the output crop (9:16).
const (
	PortraitRatioW = 9
	PortraitRatioH = 16
)

// ErrNoOverlap is returned when the crop rectangle falls entirely
// outside the source frame.
var ErrNoOverlap = errors.New("crop window outside source frame")

// PortraitCrop derives the session's fixed crop size from the source
// dimensions: full source height at the portrait ratio, never wider
// than the source itself.
func PortraitCrop(srcW, srcH int) track.CropSize {
	w := srcH * PortraitRatioW / PortraitRatioH
	if w > srcW {
		w = srcW
	}
	if w < 1 {
		w = 1
	}
	return track.CropSize{Width: w, Height: srcH}
}

// Renderer extracts the crop window from source frames and scales it to
// a fixed output height. The output Mat is reused across calls.
type Renderer struct {
	outHeight int
	out       gocv.Mat
}

// NewRenderer creates a Renderer scaling crops to the given output
// height, preserving the crop aspect ratio. Height 0 disables scaling.
func NewRenderer(outHeight int) *Renderer {
	return &Renderer{
		outHeight: outHeight,
		out:       gocv.NewMat(),
	}
}

// Render extracts the crop at pos from src and returns the scaled
// result. The returned Mat is owned by the renderer and valid until the
// next Render call. A crop that overflows the source (the degenerate
// oversized-crop case) is intersected with the frame bounds rather than
// rejected.
func (r *Renderer) Render(src *gocv.Mat, pos track.Position, size track.CropSize) (*gocv.Mat, error) {
	if src == nil || src.Empty() {
		return nil, track.ErrEmptyFrame
	}

	x := int(pos.X)
	y := int(pos.Y)
	rect := image.Rect(x, y, x+size.Width, y+size.Height)
	rect = rect.Intersect(image.Rect(0, 0, src.Cols(), src.Rows()))
	if rect.Empty() {
		return nil, ErrNoOverlap
	}

	region := src.Region(rect)
	defer region.Close()

	if r.outHeight <= 0 || rect.Dy() == r.outHeight {
		region.CopyTo(&r.out)
		return &r.out, nil
	}

	outW := rect.Dx() * r.outHeight / rect.Dy()
	if outW < 1 {
		outW = 1
	}
	gocv.Resize(region, &r.out, image.Point{X: outW, Y: r.outHeight}, 0, 0, gocv.InterpolationArea)

	return &r.out, nil
}

// Close releases the renderer's output Mat.
func (r *Renderer) Close() {
	r.out.Close()
}
