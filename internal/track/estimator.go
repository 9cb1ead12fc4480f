package track

import "time"

// edgeGuard is a one-shot deadline armed while detected motion dwells in
// the horizontal edge bands. At most one deadline is pending at a time;
// cancelling while disarmed is a no-op.
type edgeGuard struct {
	deadline time.Time
	armed    bool
}

func (g *edgeGuard) arm(now time.Time, dwell time.Duration) {
	if g.armed {
		return
	}
	g.deadline = now.Add(dwell)
	g.armed = true
}

func (g *edgeGuard) cancel() {
	g.armed = false
}

func (g *edgeGuard) due(now time.Time) bool {
	return g.armed && !now.Before(g.deadline)
}

// TargetEstimator turns motion samples (or externally supplied manual
// positions) into a clamped crop-space target. It owns the jitter
// deadzone and the edge-dwell recenter guard.
type TargetEstimator struct {
	tuning Tuning
	srcW   float64
	srcH   float64
	crop   CropSize

	target     Position
	lastActive time.Time
	guard      edgeGuard
}

// NewTargetEstimator creates an estimator for the given source and crop
// dimensions. The initial target centers the crop horizontally at the
// top of the frame.
func NewTargetEstimator(tuning Tuning, srcW, srcH int, crop CropSize) *TargetEstimator {
	e := &TargetEstimator{
		tuning: tuning,
		srcW:   float64(srcW),
		srcH:   float64(srcH),
		crop:   crop,
	}
	e.target = e.restPosition()
	return e
}

// restPosition is where the crop recenters to: horizontally centered,
// anchored to the top of the source.
func (e *TargetEstimator) restPosition() Position {
	return e.clampToCrop(Position{X: (e.srcW - float64(e.crop.Width)) / 2, Y: 0})
}

// clampToCrop limits p so the crop window stays inside the source. On an
// axis where the crop is larger than the source the result pins to 0 and
// the window overflows; the renderer tolerates that.
func (e *TargetEstimator) clampToCrop(p Position) Position {
	return Position{
		X: clamp(p.X, 0, e.srcW-float64(e.crop.Width)),
		Y: clamp(p.Y, 0, e.srcH-float64(e.crop.Height)),
	}
}

// Observe feeds one motion sample into the estimator. Only MotionLocal
// samples can move the target; MotionNone and MotionScene leave the last
// locked position untouched. analysisW and analysisH are the dimensions
// of the frame the centroid was measured in.
func (e *TargetEstimator) Observe(sample MotionSample, analysisW, analysisH int, now time.Time) {
	if sample.Class != MotionLocal || analysisW <= 0 || analysisH <= 0 {
		return
	}

	// Map the centroid from analysis space into source space.
	sx := sample.Centroid.X / float64(analysisW) * e.srcW
	sy := sample.Centroid.Y / float64(analysisH) * e.srcH

	candidate := e.clampToCrop(Position{
		X: sx - float64(e.crop.Width)/2,
		Y: sy - float64(e.crop.Height)/2,
	})

	// Edge dwell uses the unclamped source-space x: motion pinned against
	// a horizontal edge for the full dwell forces a recenter.
	if sx < e.tuning.EdgeBufferPx || sx > e.srcW-e.tuning.EdgeBufferPx {
		e.guard.arm(now, e.tuning.EdgeDwell)
	} else {
		e.guard.cancel()
	}

	// Deadzone: sub-threshold moves are detector noise, not activity.
	if distance(candidate, e.target) > e.tuning.JitterPx {
		e.target = candidate
		e.lastActive = now
	}
}

// Expire fires the edge-dwell recenter if its deadline has passed.
// Called once per tick regardless of classification, so a pending reset
// survives quiet frames. Returns true when a recenter happened.
func (e *TargetEstimator) Expire(now time.Time) bool {
	if !e.guard.due(now) {
		return false
	}
	e.guard.cancel()
	e.target = e.restPosition()
	e.lastActive = now
	return true
}

// SetTarget overrides the target from an external caller (manual pan).
// The position is clamped into the valid crop range.
func (e *TargetEstimator) SetTarget(p Position, now time.Time) {
	e.target = e.clampToCrop(p)
	e.lastActive = now
}

// Target returns the current target position.
func (e *TargetEstimator) Target() Position {
	return e.target
}

// LastActive returns when the target last moved.
func (e *TargetEstimator) LastActive() time.Time {
	return e.lastActive
}

// CancelReset cancels any pending edge-dwell recenter. Idempotent.
func (e *TargetEstimator) CancelReset() {
	e.guard.cancel()
}

// ResetPending reports whether an edge-dwell recenter is armed.
func (e *TargetEstimator) ResetPending() bool {
	return e.guard.armed
}
