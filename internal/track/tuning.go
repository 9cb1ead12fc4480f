package track

import "time"

// Tuning holds all tunable parameters for the tracking engine.
type Tuning struct {
	// Analysis
	AnalysisWidth int // Width of the downsampled analysis frame in pixels
	SampleStride  int // Process every Nth pixel during the diff pass

	// Motion classification
	MotionThreshold int     // Per-pixel channel-diff sum above which a pixel counts as changed
	SceneRatio      float64 // Change ratios above this are treated as a scroll or scene cut
	MotionFloor     float64 // Change ratios at or below this are treated as no motion

	// Target filtering
	JitterPx     float64       // Minimum target movement distance before an update is applied
	EdgeBufferPx float64       // Width of the horizontal edge band in source pixels
	EdgeDwell    time.Duration // Sustained edge motion for this long triggers a recenter

	// Smoothing
	AutoAlpha float64 // Exponential blend factor while auto-tracking
}

// DefaultTuning returns the recommended parameters for screen-activity
// tracking at typical desktop resolutions.
func DefaultTuning() Tuning {
	return Tuning{
		AnalysisWidth: 320, // Small enough to diff every frame
		SampleStride:  4,

		MotionThreshold: 15,      // Sum of |dR|+|dG|+|dB|
		SceneRatio:      0.15,    // >15% changed pixels = scroll/scene cut
		MotionFloor:     0.00005, // A few changed pixels at 320px wide

		JitterPx:     5,
		EdgeBufferPx: 50,
		EdgeDwell:    3 * time.Second,

		AutoAlpha: 0.25, // Converges without overshoot
	}
}
