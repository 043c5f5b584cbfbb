package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/vsd-hotspot/pkg/editor"
	"github.com/ha1tch/vsd-hotspot/pkg/hotspot"
)

// Config holds persistent editor settings
type Config struct {
	FileType     string  `yaml:"file_type" env:"HOTSPOT_FILE_TYPE"` // "png" or "svg"
	LastDir      string  `yaml:"last_dir"`
	CanvasWidth  float64 `yaml:"canvas_width" env:"HOTSPOT_CANVAS_WIDTH"`
	CanvasHeight float64 `yaml:"canvas_height" env:"HOTSPOT_CANVAS_HEIGHT"`
	CellWidth    float64 `yaml:"cell_width" env:"HOTSPOT_CELL_WIDTH"`   // canvas units per column
	CellHeight   float64 `yaml:"cell_height" env:"HOTSPOT_CELL_HEIGHT"` // canvas units per row
	DefaultShape string  `yaml:"default_shape" env:"HOTSPOT_DEFAULT_SHAPE"`
	LogFile      string  `yaml:"log_file,omitempty" env:"HOTSPOT_LOG_FILE"`
	LogLevel     string  `yaml:"log_level" env:"HOTSPOT_LOG_LEVEL"`
	StoreDir     string  `yaml:"store_dir,omitempty" env:"HOTSPOT_STORE_DIR"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	return Config{
		FileType:     "png",
		LastDir:      cwd,
		CanvasWidth:  editor.DefaultWidth,
		CanvasHeight: editor.DefaultHeight,
		CellWidth:    10,
		CellHeight:   20,
		DefaultShape: string(hotspot.ShapeRectangle),
		LogLevel:     "info",
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hotspotedit.yaml"
	}
	return filepath.Join(home, ".hotspotedit.yaml")
}

// LoadConfig reads the YAML config at path, then applies environment
// overrides. A missing or unreadable file yields the defaults; invalid
// values fall back to their defaults. The returned config is always usable;
// a non-nil error reports environment overrides that could not be parsed.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg Config
		if yaml.Unmarshal(data, &fileCfg) == nil {
			cfg.merge(fileCfg)
		}
	}
	err := env.Parse(&cfg)
	cfg.normalize()
	if err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}

// merge copies the non-zero fields of o into c.
func (c *Config) merge(o Config) {
	if o.FileType != "" {
		c.FileType = o.FileType
	}
	if o.LastDir != "" {
		c.LastDir = o.LastDir
	}
	if o.CanvasWidth != 0 {
		c.CanvasWidth = o.CanvasWidth
	}
	if o.CanvasHeight != 0 {
		c.CanvasHeight = o.CanvasHeight
	}
	if o.CellWidth != 0 {
		c.CellWidth = o.CellWidth
	}
	if o.CellHeight != 0 {
		c.CellHeight = o.CellHeight
	}
	if o.DefaultShape != "" {
		c.DefaultShape = o.DefaultShape
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.StoreDir != "" {
		c.StoreDir = o.StoreDir
	}
}

func (c *Config) normalize() {
	def := DefaultConfig()
	if c.FileType != "png" && c.FileType != "svg" {
		c.FileType = def.FileType
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		c.CanvasWidth, c.CanvasHeight = def.CanvasWidth, def.CanvasHeight
	}
	if c.CellWidth <= 0 {
		c.CellWidth = def.CellWidth
	}
	if c.CellHeight <= 0 {
		c.CellHeight = def.CellHeight
	}
	if !hotspot.ShapeType(c.DefaultShape).Valid() {
		c.DefaultShape = def.DefaultShape
	}
	var lvl slog.Level
	if lvl.UnmarshalText([]byte(c.LogLevel)) != nil {
		c.LogLevel = def.LogLevel
	}
}

// SaveConfig writes configuration to path as YAML.
func SaveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	content := append([]byte("# hotspotedit configuration\n"), data...)
	return os.WriteFile(path, content, 0644)
}

// OpenLogger returns a logger writing to the configured log file, and a
// function closing it. The terminal belongs to the editor, so without a
// log file output is discarded.
func OpenLogger(cfg Config) (*slog.Logger, func() error, error) {
	var lvl slog.Level
	_ = lvl.UnmarshalText([]byte(cfg.LogLevel))
	opts := &slog.HandlerOptions{Level: lvl}

	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, opts)), f.Close, nil
}
