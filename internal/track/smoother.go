package track

// Smoother advances a current position toward a target position with a
// first-order exponential filter, applied independently per axis. With
// alpha below 1 the current position approaches the target
// asymptotically and never overshoots; alpha 1 snaps exactly.
type Smoother struct{}

// Advance returns the next current position for the given blend factor.
func (Smoother) Advance(current, target Position, alpha float64) Position {
	return Position{
		X: lerp(current.X, target.X, alpha),
		Y: lerp(current.Y, target.Y, alpha),
	}
}
