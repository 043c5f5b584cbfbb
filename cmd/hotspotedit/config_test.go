package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, _ := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	def := DefaultConfig()

	if cfg.FileType != "png" || cfg.DefaultShape != "rectangle" {
		t.Errorf("got %+v", cfg)
	}
	if cfg.CanvasWidth != 800 || cfg.CanvasHeight != 600 {
		t.Errorf("canvas = %vx%v, want 800x600", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.CellWidth != def.CellWidth || cfg.CellHeight != def.CellHeight {
		t.Errorf("cell = %vx%v", cfg.CellWidth, cfg.CellHeight)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := `file_type: svg
canvas_width: 1024
canvas_height: 768
default_shape: circle
cell_width: 8
log_level: debug
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _ := LoadConfig(path)
	if cfg.FileType != "svg" || cfg.DefaultShape != "circle" || cfg.LogLevel != "debug" {
		t.Errorf("got %+v", cfg)
	}
	if cfg.CanvasWidth != 1024 || cfg.CanvasHeight != 768 || cfg.CellWidth != 8 {
		t.Errorf("sizes = %v %v %v", cfg.CanvasWidth, cfg.CanvasHeight, cfg.CellWidth)
	}
	if cfg.CellHeight != 20 {
		t.Errorf("unset cell_height = %v, want default 20", cfg.CellHeight)
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := `file_type: gif
canvas_width: -5
default_shape: triangle
cell_height: -1
log_level: loud
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _ := LoadConfig(path)
	def := DefaultConfig()
	if cfg.FileType != def.FileType {
		t.Errorf("file_type = %q", cfg.FileType)
	}
	if cfg.CanvasWidth != def.CanvasWidth || cfg.CanvasHeight != def.CanvasHeight {
		t.Errorf("canvas = %vx%v", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.DefaultShape != def.DefaultShape {
		t.Errorf("default_shape = %q", cfg.DefaultShape)
	}
	if cfg.CellHeight != def.CellHeight {
		t.Errorf("cell_height = %v", cfg.CellHeight)
	}
	if cfg.LogLevel != def.LogLevel {
		t.Errorf("log_level = %q", cfg.LogLevel)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("file_type: png\nlog_level: info\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOTSPOT_FILE_TYPE", "svg")
	t.Setenv("HOTSPOT_LOG_LEVEL", "warn")
	t.Setenv("HOTSPOT_STORE_DIR", "/tmp/pages")
	t.Setenv("HOTSPOT_CANVAS_WIDTH", "640")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.FileType != "svg" || cfg.LogLevel != "warn" || cfg.StoreDir != "/tmp/pages" {
		t.Errorf("got %+v", cfg)
	}
	if cfg.CanvasWidth != 640 {
		t.Errorf("canvas_width = %v, want 640", cfg.CanvasWidth)
	}
}

func TestLoadConfigMalformedEnv(t *testing.T) {
	t.Setenv("HOTSPOT_CANVAS_WIDTH", "abc")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("malformed HOTSPOT_CANVAS_WIDTH not reported")
	}
	if cfg.CanvasWidth != 800 {
		t.Errorf("canvas_width = %v, want default 800", cfg.CanvasWidth)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.FileType = "svg"
	cfg.LastDir = "/books/pigs"
	cfg.DefaultShape = "circle"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, _ := LoadConfig(path)
	if got != cfg {
		t.Errorf("round trip:\ngot  %+v\nwant %+v", got, cfg)
	}
}

func TestOpenLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "edit.log")

	logger, closeLog, err := OpenLogger(cfg)
	if err != nil {
		t.Fatalf("OpenLogger: %v", err)
	}
	logger.Info("hotspot clicked", "word", "pig")
	logger.Debug("hidden")
	if err := closeLog(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `msg="hotspot clicked" word=pig`) {
		t.Errorf("log = %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug line written at info level")
	}
}
