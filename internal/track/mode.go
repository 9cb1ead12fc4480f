package track

import "fmt"

// Mode selects how the crop target is driven.
type Mode int

const (
	// ModeManual sets the target directly from an external caller with no
	// smoothing lag.
	ModeManual Mode = iota
	// ModeSmoothFollow is manual panning; the target is externally set and
	// the crop snaps to it each frame.
	ModeSmoothFollow
	// ModeAutoTrack drives the target from detected on-screen motion.
	ModeAutoTrack
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeManual:
		return "manual"
	case ModeSmoothFollow:
		return "smooth-follow"
	case ModeAutoTrack:
		return "auto"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a wire name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "manual":
		return ModeManual, nil
	case "smooth-follow":
		return ModeSmoothFollow, nil
	case "auto":
		return ModeAutoTrack, nil
	default:
		return ModeManual, fmt.Errorf("unknown tracking mode %q", s)
	}
}

// manual reports whether the target is externally driven in this mode.
func (m Mode) manual() bool {
	return m == ModeManual || m == ModeSmoothFollow
}

// alpha returns the smoothing blend factor for the mode. Manual modes
// snap immediately; auto-tracking trades responsiveness for stability.
func (m Mode) alpha(tuning Tuning) float64 {
	if m == ModeAutoTrack {
		return tuning.AutoAlpha
	}
	return 1.0
}
