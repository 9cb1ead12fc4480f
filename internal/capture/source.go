// Package capture provides video frame acquisition using GoCV (OpenCV).
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Default source settings
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
	DefaultFPS    = 30
)

// ErrNotOpen is returned when reading from a source that is not open.
var ErrNotOpen = errors.New("capture source is not open")

// ErrNotReady is returned when no frame is available right now. The
// tracking pipeline tolerates it by skipping that tick's analysis.
var ErrNotReady = errors.New("frame not ready")

// Source defines the interface for frame source implementations.
type Source interface {
	Open() error
	Close() error
	// ReadFrame returns the current frame. The caller owns the returned
	// Mat and must close it.
	ReadFrame() (*gocv.Mat, error)
	// Size returns the source frame dimensions. Only valid while open.
	Size() (width, height int)
	IsOpen() bool
}

// videoSource captures frames from a capture device (screen-capture
// virtual device or camera) using GoCV.
type videoSource struct {
	deviceID int
	width    int
	height   int
	fps      int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
}

// NewVideoSource creates a Source reading from the given device ID at
// the requested resolution and frame rate. Zero values fall back to the
// package defaults.
func NewVideoSource(deviceID, width, height, fps int) Source {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &videoSource{
		deviceID: deviceID,
		width:    width,
		height:   height,
		fps:      fps,
	}
}

// Open opens the capture device and applies the configured resolution
// and frame rate.
func (s *videoSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(s.deviceID)
	if err != nil {
		return err
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(s.width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(s.height))
	capture.Set(gocv.VideoCaptureFPS, float64(s.fps))

	// The device may not honor the requested dimensions; record what it
	// actually delivers.
	if w := int(capture.Get(gocv.VideoCaptureFrameWidth)); w > 0 {
		s.width = w
	}
	if h := int(capture.Get(gocv.VideoCaptureFrameHeight)); h > 0 {
		s.height = h
	}

	s.capture = capture
	s.running = true

	return nil
}

// Close closes the device and releases resources.
func (s *videoSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		s.running = false
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	s.running = false

	return err
}

// ReadFrame reads a single frame. A device that momentarily has nothing
// to deliver yields ErrNotReady rather than a hard failure.
func (s *videoSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		return nil, ErrNotOpen
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok {
		mat.Close()
		return nil, ErrNotReady
	}

	if mat.Empty() {
		mat.Close()
		return nil, ErrNotReady
	}

	return &mat, nil
}

// Size returns the source dimensions.
func (s *videoSource) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// IsOpen returns true if the source is currently open.
func (s *videoSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
