package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/reframe/internal/app"
	"github.com/ayusman/reframe/internal/capture"
	"github.com/ayusman/reframe/internal/config"
	"github.com/ayusman/reframe/internal/server"
	"github.com/ayusman/reframe/internal/store"
	"github.com/ayusman/reframe/internal/track"
	"github.com/ayusman/reframe/internal/tray"
)

func main() {
	fmt.Println("Reframe - Adaptive Crop Tracking")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".reframe")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	cfg, err := config.Load(filepath.Join(dataDir, "config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbPath := filepath.Join(dataDir, "reframe.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	source := capture.NewVideoSource(cfg.Device, cfg.Width, cfg.Height, cfg.FPS)

	a := app.New(app.Config{
		Store:        st,
		Source:       source,
		Tuning:       cfg.EngineTuning(),
		FPS:          cfg.FPS,
		OutputHeight: cfg.OutputHeight,
	})

	// Find web directory for the preview UI
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Listen)
		if err := srv.ListenAndServe(cfg.Listen); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// The tray owns the main thread; quitting it tears the session down.
	tr := tray.New()
	tr.OnToggle(func(running bool) {
		if running {
			if err := a.Start(); err != nil {
				log.Printf("Failed to start capture: %v", err)
			}
		} else {
			a.Stop()
		}
	})
	tr.OnMode(func(mode track.Mode) {
		a.SetMode(mode)
	})
	tr.OnQuit(func() {
		a.Stop()
	})

	tr.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.reframe/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".reframe", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
