package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockSource plays back a pre-recorded frame sequence for testing.
type MockSource struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	mu      sync.Mutex
	running bool
}

// NewMockSource creates a MockSource over the given frames. With loop
// set, playback wraps around; otherwise exhausted playback reports
// ErrNotReady, which exercises the pipeline's skip path.
func NewMockSource(frames []*gocv.Mat, loop bool) *MockSource {
	return &MockSource{
		frames: frames,
		loop:   loop,
	}
}

func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.index = 0
	return nil
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

func (s *MockSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, ErrNotOpen
	}

	if len(s.frames) == 0 {
		return nil, ErrNotReady
	}

	if s.index >= len(s.frames) {
		if !s.loop {
			return nil, ErrNotReady
		}
		s.index = 0
	}

	// Clone so the caller can close its copy freely.
	frame := s.frames[s.index].Clone()
	s.index++

	return &frame, nil
}

func (s *MockSource) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.frames) == 0 {
		return 0, 0
	}
	return s.frames[0].Cols(), s.frames[0].Rows()
}

func (s *MockSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// SetFrames replaces the frame sequence and restarts playback.
func (s *MockSource) SetFrames(frames []*gocv.Mat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = frames
	s.index = 0
}

// Reset restarts playback from the beginning.
func (s *MockSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}
