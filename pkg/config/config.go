// Package config loads the viewer settings from a JSON file and merges
// command-line overrides into them.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Defaults.
const (
	DefaultFPS            = 75
	DefaultMouseScale     = 8
	DefaultSnapshotFormat = "png"
	DefaultSnapshotScale  = 1
)

// Config holds the viewer settings.
type Config struct {
	// Loop
	FPS        int     `json:"fps"`
	MaxSamples int     `json:"max_samples"` // 0 accumulates forever
	MouseScale float64 `json:"mouse_scale"` // input units per terminal cell
	Seed       int64   `json:"seed"`

	// Stages, empty for the built-in ones
	RenderStage string `json:"render_stage"`
	DrawStage   string `json:"draw_stage"`

	// Output
	SnapshotDir    string `json:"snapshot_dir"`
	SnapshotFormat string `json:"snapshot_format"` // png or webp
	SnapshotScale  int    `json:"snapshot_scale"`
	LogFile        string `json:"log_file"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values. Relative paths in the
// file are taken relative to the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&cfg.RenderStage, &cfg.DrawStage, &cfg.SnapshotDir, &cfg.LogFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	FPS            int
	MaxSamples     int
	MouseScale     float64
	Seed           int64
	RenderStage    string
	DrawStage      string
	SnapshotDir    string
	SnapshotFormat string
	SnapshotScale  int
	LogFile        string
}

// Resolve applies flags over the file settings, then fills in defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.MaxSamples > 0 {
		c.MaxSamples = flags.MaxSamples
	}
	if flags.MouseScale > 0 {
		c.MouseScale = flags.MouseScale
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}
	if flags.RenderStage != "" {
		c.RenderStage = flags.RenderStage
	}
	if flags.DrawStage != "" {
		c.DrawStage = flags.DrawStage
	}
	if flags.SnapshotDir != "" {
		c.SnapshotDir = flags.SnapshotDir
	}
	if flags.SnapshotFormat != "" {
		c.SnapshotFormat = flags.SnapshotFormat
	}
	if flags.SnapshotScale > 0 {
		c.SnapshotScale = flags.SnapshotScale
	}
	if flags.LogFile != "" {
		c.LogFile = flags.LogFile
	}

	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.MaxSamples < 0 {
		c.MaxSamples = 0
	}
	if c.MouseScale <= 0 {
		c.MouseScale = DefaultMouseScale
	}
	if c.SnapshotDir == "" {
		c.SnapshotDir = "."
	}
	c.SnapshotFormat = strings.ToLower(c.SnapshotFormat)
	if c.SnapshotFormat == "" {
		c.SnapshotFormat = DefaultSnapshotFormat
	}
	if c.SnapshotScale <= 0 {
		c.SnapshotScale = DefaultSnapshotScale
	}
}

// Validate reports settings Resolve cannot repair.
func (c *Config) Validate() error {
	switch c.SnapshotFormat {
	case "png", "webp":
	default:
		return fmt.Errorf("config: unknown snapshot format %q", c.SnapshotFormat)
	}
	if c.FPS > 1000 {
		return fmt.Errorf("config: fps %d out of range", c.FPS)
	}
	return nil
}
