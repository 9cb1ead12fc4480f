package track

import "math"

// Position is a point in source-frame pixel space. Coordinates are
// unbounded; consumers clamp into the valid crop range as needed.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CropSize is the fixed dimensions of the output crop window. It is
// derived once from the source aspect ratio when a session starts and
// never changes for the session's duration.
type CropSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// distance returns the Euclidean distance between two positions.
func distance(a, b Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// clamp limits v to the range [lo, hi]. If hi < lo (a crop larger than
// the source on that axis), the result is pinned to lo.
func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lerp blends from a toward b by factor t.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
