package track

// MotionClass classifies the outcome of one motion-detection pass.
type MotionClass int

const (
	// MotionNone means nothing moved beyond the noise floor.
	MotionNone MotionClass = iota
	// MotionScene means a frame-wide change (scroll, window switch, scene
	// cut); the centroid is meaningless and no target update follows.
	MotionScene
	// MotionLocal means a localized region changed; Centroid points at it.
	MotionLocal
)

// String returns a short name for the classification.
func (c MotionClass) String() string {
	switch c {
	case MotionScene:
		return "scene"
	case MotionLocal:
		return "local"
	default:
		return "none"
	}
}

// MotionSample is the result of diffing one analysis frame against the
// previous one. Centroid is in analysis-frame coordinates and only
// meaningful when Class is MotionLocal.
type MotionSample struct {
	Centroid    Position
	ChangeRatio float64
	Class       MotionClass
}

// MotionDetector computes frame-to-frame pixel differences on analysis
// frames and classifies the result. It keeps the previous frame as the
// diff baseline; the baseline is replaced on every call regardless of
// classification.
type MotionDetector struct {
	tuning Tuning
	prev   AnalysisFrame
	primed bool
}

// NewMotionDetector creates a MotionDetector with the given tuning.
func NewMotionDetector(tuning Tuning) *MotionDetector {
	return &MotionDetector{tuning: tuning}
}

// Detect diffs frame against the stored baseline and returns one motion
// sample. The boolean is false when no sample could be produced: on the
// first call, or when the analysis dimensions changed, only the new
// baseline is stored.
//
// The diff walks every SampleStride-th pixel and sums the absolute
// per-channel differences; a pixel is changed when the sum exceeds
// MotionThreshold. The loop reads the two pixel buffers directly and
// performs no allocation.
func (d *MotionDetector) Detect(frame *AnalysisFrame) (MotionSample, bool) {
	if frame == nil || len(frame.Pix) == 0 {
		return MotionSample{}, false
	}

	if !d.primed || d.prev.Width != frame.Width || d.prev.Height != frame.Height || d.prev.Channels != frame.Channels {
		frame.clone(&d.prev)
		d.primed = true
		return MotionSample{}, false
	}

	stride := d.tuning.SampleStride
	if stride < 1 {
		stride = 1
	}

	// Compare at most three channels so BGRA sources diff like BGR ones.
	ch := frame.Channels
	if ch > 3 {
		ch = 3
	}

	cur := frame.Pix
	prev := d.prev.Pix
	width := frame.Width
	total := frame.Width * frame.Height

	var changed, sumX, sumY int
	for i := 0; i < total; i += stride {
		off := i * frame.Channels
		diff := 0
		for c := 0; c < ch; c++ {
			delta := int(cur[off+c]) - int(prev[off+c])
			if delta < 0 {
				delta = -delta
			}
			diff += delta
		}
		if diff > d.tuning.MotionThreshold {
			changed++
			sumX += i % width
			sumY += i / width
		}
	}

	sampled := (total + stride - 1) / stride
	sample := MotionSample{
		ChangeRatio: float64(changed) / float64(sampled),
	}

	// A centroid needs at least one changed pixel; without one the pass
	// is no-motion no matter what the ratio arithmetic says.
	switch {
	case changed == 0:
		sample.Class = MotionNone
	case sample.ChangeRatio > d.tuning.SceneRatio:
		sample.Class = MotionScene
	case sample.ChangeRatio > d.tuning.MotionFloor:
		sample.Class = MotionLocal
		sample.Centroid = Position{
			X: float64(sumX) / float64(changed),
			Y: float64(sumY) / float64(changed),
		}
	default:
		sample.Class = MotionNone
	}

	frame.clone(&d.prev)
	return sample, true
}

// Reset discards the baseline so the next Detect call stores a fresh one.
func (d *MotionDetector) Reset() {
	d.primed = false
}
