// Package app wires the capture source, tracking engine, and crop
// renderer into a per-session pipeline.
package app

import (
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/reframe/internal/capture"
	"github.com/ayusman/reframe/internal/render"
	"github.com/ayusman/reframe/internal/store"
	"github.com/ayusman/reframe/internal/track"
)

// Pipeline timing constants.
const (
	// DefaultFPS is the render tick rate when none is configured.
	DefaultFPS = 30
)

// ErrNotRunning is returned by operations that need an active session.
var ErrNotRunning = errors.New("capture session is not running")

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	Source       capture.Source
	Tuning       track.Tuning
	FPS          int
	OutputHeight int
}

// Status is a snapshot of the tracking state, served to overlays and
// the WebSocket feed.
type Status struct {
	Running     bool           `json:"running"`
	Mode        string         `json:"mode"`
	Target      track.Position `json:"target"`
	Current     track.Position `json:"current"`
	Crop        track.CropSize `json:"crop"`
	Motion      string         `json:"motion"`
	ChangeRatio float64        `json:"change_ratio"`
}

// App owns the capture session lifecycle: it opens the source, creates
// a tracking engine sized to it, runs the per-frame pipeline, and tears
// everything down on stop.
type App struct {
	config Config
	source capture.Source

	mu        sync.RWMutex
	engine    *track.Engine
	renderer  *render.Renderer
	mode      track.Mode
	stopCh    chan struct{}
	doneCh    chan struct{}
	sessionID string
	lastJPEG  []byte
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.FPS <= 0 {
		config.FPS = DefaultFPS
	}
	if config.Tuning.AnalysisWidth == 0 {
		config.Tuning = track.DefaultTuning()
	}

	mode := track.ModeAutoTrack
	if config.Store != nil {
		if saved, err := config.Store.Settings().Get(store.SettingMode); err == nil {
			if m, err := track.ParseMode(saved); err == nil {
				mode = m
			}
		}
	}

	return &App{
		config: config,
		source: config.Source,
		mode:   mode,
	}
}

// Start opens the source, sizes a crop window to it, and begins the
// pipeline. Starting an already running app is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.source.Open(); err != nil {
		return err
	}

	srcW, srcH := a.source.Size()
	if srcW <= 0 || srcH <= 0 {
		a.source.Close()
		return errors.New("source reported no dimensions")
	}

	crop := render.PortraitCrop(srcW, srcH)
	a.engine = track.NewEngine(a.config.Tuning, srcW, srcH, crop)
	a.engine.SetMode(a.mode)
	a.renderer = render.NewRenderer(a.config.OutputHeight)
	a.lastJPEG = nil

	if a.config.Store != nil {
		sess := &store.Session{
			ID:           uuid.New().String(),
			SourceWidth:  srcW,
			SourceHeight: srcH,
			CropWidth:    crop.Width,
			CropHeight:   crop.Height,
			Mode:         a.mode.String(),
		}
		if err := a.config.Store.Sessions().Create(sess); err != nil {
			log.Printf("Failed to record session: %v", err)
		} else {
			a.sessionID = sess.ID
		}
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.engine, a.renderer, a.stopCh, a.doneCh)

	log.Printf("Capture started: %dx%d source, %dx%d crop", srcW, srcH, crop.Width, crop.Height)
	return nil
}

// Stop halts the pipeline and discards the session's tracking state.
// Any pending edge-dwell reset dies with the engine.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	done := a.doneCh
	a.mu.Unlock()

	// Wait for the pipeline goroutine before tearing resources down.
	<-done

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.source.Close(); err != nil {
		log.Printf("Error closing source: %v", err)
	}

	a.engine.Close()
	a.renderer.Close()
	finalMode := a.engine.Mode().String()
	a.engine = nil
	a.renderer = nil

	if a.config.Store != nil && a.sessionID != "" {
		if err := a.config.Store.Sessions().End(a.sessionID, finalMode); err != nil {
			log.Printf("Failed to close session record: %v", err)
		}
		a.sessionID = ""
	}

	log.Println("Capture stopped")
}

// IsRunning reports whether a capture session is active.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// SetMode selects the tracking mode, applied immediately to a running
// engine and remembered for the next session otherwise.
func (a *App) SetMode(m track.Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.mode = m
	if a.engine != nil {
		a.engine.SetMode(m)
	}

	if a.config.Store != nil {
		if err := a.config.Store.Settings().Set(store.SettingMode, m.String()); err != nil {
			log.Printf("Failed to persist tracking mode: %v", err)
		}
	}
}

// SetTuning replaces the engine tuning used by the next capture session.
// A running session keeps the tuning it started with.
func (a *App) SetTuning(t track.Tuning) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config.Tuning = t
}

// Tuning returns the tuning the next capture session will use.
func (a *App) Tuning() track.Tuning {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config.Tuning
}

// Mode returns the selected tracking mode.
func (a *App) Mode() track.Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.engine != nil {
		return a.engine.Mode()
	}
	return a.mode
}

// SetTarget forwards a manual pan position to the engine. Fails when no
// session is running; ignored by the engine outside the manual modes.
func (a *App) SetTarget(p track.Position) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.engine == nil {
		return ErrNotRunning
	}
	a.engine.SetTarget(p)
	return nil
}

// Status returns a snapshot of the tracking state.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.engine == nil {
		return Status{Mode: a.mode.String()}
	}

	sample := a.engine.LastSample()
	return Status{
		Running:     true,
		Mode:        a.engine.Mode().String(),
		Target:      a.engine.Target(),
		Current:     a.engine.Current(),
		Crop:        a.engine.CropSize(),
		Motion:      sample.Class.String(),
		ChangeRatio: sample.ChangeRatio,
	}
}

// LatestFrame returns the most recent JPEG-encoded crop frame.
func (a *App) LatestFrame() ([]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.lastJPEG == nil {
		return nil, false
	}
	return a.lastJPEG, true
}

// Source returns the frame source.
func (a *App) Source() capture.Source {
	return a.source
}
