package app

import (
	"errors"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/reframe/internal/capture"
	"github.com/ayusman/reframe/internal/render"
	"github.com/ayusman/reframe/internal/track"
)

// runPipeline is the per-session frame loop. Each tick performs at most
// one motion-analysis pass, one smoothing step, and one crop render:
//
// 1. Read the current frame; "not ready" skips analysis for the tick
// 2. Engine tick: sample, diff, estimate target (auto-track only)
// 3. Engine advance: smooth the current position toward the target
// 4. Render and JPEG-encode the crop for the stream and preview
//
// The engine and renderer are owned by this goroutine for the session's
// lifetime; Stop waits for doneCh before tearing them down.
func (a *App) runPipeline(engine *track.Engine, renderer *render.Renderer, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	interval := time.Second / time.Duration(a.config.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			a.tick(engine, renderer)
		}
	}
}

// tick runs one full pipeline pass.
func (a *App) tick(engine *track.Engine, renderer *render.Renderer) {
	frame, err := a.source.ReadFrame()
	if err != nil {
		if !errors.Is(err, capture.ErrNotReady) {
			log.Printf("Error reading frame: %v", err)
		}
		// No frame this tick: the analysis pass is skipped but the
		// smoother still runs so the crop keeps converging instead of
		// stalling.
		engine.Tick(nil)
		engine.Advance()
		return
	}
	defer frame.Close()

	engine.Tick(frame)
	pos := engine.Advance()

	out, err := renderer.Render(frame, pos, engine.CropSize())
	if err != nil {
		log.Printf("Error rendering crop: %v", err)
		return
	}

	buf, err := gocv.IMEncode(".jpg", *out)
	if err != nil {
		log.Printf("Error encoding crop frame: %v", err)
		return
	}

	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	buf.Close()

	a.mu.Lock()
	a.lastJPEG = jpeg
	a.mu.Unlock()
}
