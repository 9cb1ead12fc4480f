// Package config loads reframe's startup configuration from a YAML
// file, falling back to defaults when the file is absent.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/reframe/internal/track"
)

// Config holds the application's startup configuration.
type Config struct {
	// Device is the capture device ID (screen-capture virtual device or
	// camera index).
	Device int `yaml:"device"`
	// Width and Height request a capture resolution; the device may
	// deliver something else.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// FPS is the render tick rate.
	FPS int `yaml:"fps"`
	// OutputHeight scales the crop to this height; 0 keeps native size.
	OutputHeight int `yaml:"output_height"`
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// Tuning optionally overrides individual tracking parameters.
	Tuning Tuning `yaml:"tuning"`
}

// Tuning mirrors track.Tuning with optional fields: zero values keep
// the engine defaults.
type Tuning struct {
	MotionThreshold int     `yaml:"motion_threshold"`
	SceneRatio      float64 `yaml:"scene_ratio"`
	MotionFloor     float64 `yaml:"motion_floor"`
	JitterPx        float64 `yaml:"jitter_px"`
	EdgeBufferPx    float64 `yaml:"edge_buffer_px"`
	EdgeDwellMs     int     `yaml:"edge_dwell_ms"`
	Smoothing       float64 `yaml:"smoothing"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Device: 0,
		Width:  1920,
		Height: 1080,
		FPS:    30,
		Listen: ":8080",
	}
}

// Load reads the configuration file at path. A missing file yields the
// defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.FPS <= 0 {
		cfg.FPS = Default().FPS
	}
	if cfg.Listen == "" {
		cfg.Listen = Default().Listen
	}

	return cfg, nil
}

// EngineTuning applies the config's overrides on top of the engine
// defaults.
func (c Config) EngineTuning() track.Tuning {
	t := track.DefaultTuning()

	if c.Tuning.MotionThreshold > 0 {
		t.MotionThreshold = c.Tuning.MotionThreshold
	}
	if c.Tuning.SceneRatio > 0 {
		t.SceneRatio = c.Tuning.SceneRatio
	}
	if c.Tuning.MotionFloor > 0 {
		t.MotionFloor = c.Tuning.MotionFloor
	}
	if c.Tuning.JitterPx > 0 {
		t.JitterPx = c.Tuning.JitterPx
	}
	if c.Tuning.EdgeBufferPx > 0 {
		t.EdgeBufferPx = c.Tuning.EdgeBufferPx
	}
	if c.Tuning.EdgeDwellMs > 0 {
		t.EdgeDwell = time.Duration(c.Tuning.EdgeDwellMs) * time.Millisecond
	}
	if c.Tuning.Smoothing > 0 {
		t.AutoAlpha = c.Tuning.Smoothing
	}

	return t
}
