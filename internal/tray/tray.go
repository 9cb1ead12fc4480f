// Package tray provides a system tray interface for controlling the
// reframe capture session and tracking mode.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/reframe/internal/track"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(running bool)
	onMode   func(mode track.Mode)
	onQuit   func()
	running  bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuAuto   *systray.MenuItem
	menuSmooth *systray.MenuItem
	menuManual *systray.MenuItem
}

// New creates a new Tray instance with capture stopped by default.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback for starting or stopping capture.
func (t *Tray) OnToggle(fn func(running bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnMode sets the callback for tracking mode selection.
func (t *Tray) OnMode(fn func(mode track.Mode)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMode = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Reframe")
	systray.SetTooltip("Reframe crop tracking")

	t.menuToggle = systray.AddMenuItem("○ Start capture", "Start or stop capture")
	systray.AddSeparator()

	t.menuAuto = systray.AddMenuItemCheckbox("Auto track", "Follow on-screen activity", true)
	t.menuSmooth = systray.AddMenuItemCheckbox("Smooth follow", "Manual pan", false)
	t.menuManual = systray.AddMenuItemCheckbox("Manual", "Fixed manual position", false)
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Reframe")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuAuto.ClickedCh:
				t.handleMode(track.ModeAutoTrack)
			case <-t.menuSmooth.ClickedCh:
				t.handleMode(track.ModeSmoothFollow)
			case <-t.menuManual.ClickedCh:
				t.handleMode(track.ModeManual)
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the start/stop menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.running = !t.running
	running := t.running

	if running {
		t.menuToggle.SetTitle("● Stop capture")
	} else {
		t.menuToggle.SetTitle("○ Start capture")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(running)
	}
}

// handleMode handles a mode menu item click, keeping the checkboxes in
// sync with the selection.
func (t *Tray) handleMode(mode track.Mode) {
	t.mu.Lock()
	t.menuAuto.Uncheck()
	t.menuSmooth.Uncheck()
	t.menuManual.Uncheck()
	switch mode {
	case track.ModeAutoTrack:
		t.menuAuto.Check()
	case track.ModeSmoothFollow:
		t.menuSmooth.Check()
	case track.ModeManual:
		t.menuManual.Check()
	}
	callback := t.onMode
	t.mu.Unlock()

	if callback != nil {
		callback(mode)
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// IsRunning returns whether the tray believes capture is running.
func (t *Tray) IsRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}
