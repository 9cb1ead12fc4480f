// Package track implements the cursor-activity tracking and crop
// stabilization engine: it watches a stream of video frames for
// localized motion and drives a portrait crop window toward it, with a
// jitter deadzone, an edge-dwell recenter, and per-frame exponential
// smoothing.
package track

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Engine owns all per-session tracking state: the target and current
// crop positions, the previous analysis frame, and the pending
// edge-dwell reset. One engine exists per capture session and is
// discarded when the session stops.
//
// Tick and Advance are driven by the single pipeline goroutine; the
// control accessors (SetMode, SetTarget, snapshots) may be called from
// HTTP handlers, so all state is mutex-guarded.
type Engine struct {
	mu     sync.RWMutex
	tuning Tuning
	mode   Mode

	srcW, srcH int
	crop       CropSize

	sampler   *FrameSampler
	detector  *MotionDetector
	estimator *TargetEstimator
	smoother  Smoother

	current    Position
	lastSample MotionSample

	// now is swappable for deterministic dwell tests.
	now func() time.Time
}

// NewEngine creates a tracking engine for a source of the given
// dimensions and a fixed crop size. Both the target and the current
// position start centered horizontally at the top of the source.
func NewEngine(tuning Tuning, srcW, srcH int, crop CropSize) *Engine {
	e := &Engine{
		tuning:    tuning,
		mode:      ModeAutoTrack,
		srcW:      srcW,
		srcH:      srcH,
		crop:      crop,
		sampler:   NewFrameSampler(tuning.AnalysisWidth),
		detector:  NewMotionDetector(tuning),
		estimator: NewTargetEstimator(tuning, srcW, srcH, crop),
		now:       time.Now,
	}
	e.current = e.estimator.Target()
	return e
}

// Close releases the engine's analysis resources. The engine must not
// be used afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sampler.Close()
	e.estimator.CancelReset()
}

// Tick runs one analysis pass against the given source frame. In
// auto-track mode the frame is downsampled, diffed against the previous
// analysis frame, and the result fed to the target estimator. A nil or
// empty frame skips the pass entirely, leaving the diff baseline and
// target untouched; the edge-dwell expiry check still runs, so a
// pending recenter fires on schedule through quiet frames. In manual
// modes neither the detector nor the edge timer is consulted.
func (e *Engine) Tick(frame *gocv.Mat) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeAutoTrack {
		return
	}

	now := e.now()

	if frame != nil && !frame.Empty() {
		if af, err := e.sampler.Sample(frame); err == nil {
			e.tickAnalysis(af, now)
		}
	}

	e.estimator.Expire(now)
}

// tickAnalysis is the gocv-free half of Tick: detector pass plus
// estimator update against an already-sampled analysis frame.
func (e *Engine) tickAnalysis(af *AnalysisFrame, now time.Time) {
	sample, ok := e.detector.Detect(af)
	if !ok {
		return
	}
	e.lastSample = sample
	e.estimator.Observe(sample, af.Width, af.Height, now)
}

// Advance runs one smoothing step, moving the current position toward
// the target by the mode's blend factor, and returns the new current
// position. It runs once per rendered frame regardless of mode and
// regardless of whether Tick had a frame to analyze.
func (e *Engine) Advance() Position {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = e.smoother.Advance(e.current, e.estimator.Target(), e.mode.alpha(e.tuning))
	return e.current
}

// SetMode selects the tracking mode. Entering auto-track does not reset
// the positions; tracking resumes from wherever the crop sits.
func (e *Engine) SetMode(m Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = m
}

// Mode returns the currently selected tracking mode.
func (e *Engine) Mode() Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// SetTarget sets the target position directly. Only honored in the
// manual modes; while auto-tracking the detector owns the target.
func (e *Engine) SetTarget(p Position) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mode.manual() {
		return
	}
	e.estimator.SetTarget(p, e.now())
}

// Target returns the current target position, read by preview overlays
// to show where the engine believes activity is centered.
func (e *Engine) Target() Position {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.estimator.Target()
}

// Current returns the smoothed crop position.
func (e *Engine) Current() Position {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// CropSize returns the session's fixed crop dimensions.
func (e *Engine) CropSize() CropSize {
	return e.crop
}

// CropRect returns the smoothed crop rectangle in source coordinates,
// read every render tick by the output compositor.
func (e *Engine) CropRect() image.Rectangle {
	e.mu.RLock()
	defer e.mu.RUnlock()

	x := int(e.current.X)
	y := int(e.current.Y)
	return image.Rect(x, y, x+e.crop.Width, y+e.crop.Height)
}

// LastSample returns the most recent motion sample, for overlay display.
func (e *Engine) LastSample() MotionSample {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSample
}

// SourceSize returns the source dimensions the engine was created for.
func (e *Engine) SourceSize() (int, int) {
	return e.srcW, e.srcH
}
