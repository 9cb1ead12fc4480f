package track

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"inside range", 5, 0, 10, 5},
		{"below range", -3, 0, 10, 0},
		{"above range", 12, 0, 10, 10},
		{"at lower bound", 0, 0, 10, 0},
		{"at upper bound", 10, 0, 10, 10},
		{"inverted range pins to lower", 5, 0, -313, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Errorf("clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		name    string
		a, b, t float64
		want    float64
	}{
		{"t zero holds a", 2, 10, 0, 2},
		{"t one snaps to b", 2, 10, 1, 10},
		{"quarter blend", 0, 8, 0.25, 2},
		{"negative direction", 10, 2, 0.5, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lerp(tt.a, tt.b, tt.t); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("lerp(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.t, got, tt.want)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	a := Position{X: 0, Y: 0}
	b := Position{X: 3, Y: 4}

	if got := distance(a, b); math.Abs(got-5) > 1e-9 {
		t.Errorf("distance = %v, want 5", got)
	}
	if got := distance(a, a); got != 0 {
		t.Errorf("distance to self = %v, want 0", got)
	}
}
