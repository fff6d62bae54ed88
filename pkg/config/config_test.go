package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chart.CanvasSize != 700 {
		t.Errorf("expected canvas size 700, got %g", cfg.Chart.CanvasSize)
	}
	if cfg.Chart.Padding != 3 {
		t.Errorf("expected padding 3, got %g", cfg.Chart.Padding)
	}
	if len(cfg.Chart.Thresholds) != 6 || len(cfg.Chart.Palette) != 7 {
		t.Errorf("expected 6 thresholds and 7 colours, got %d and %d", len(cfg.Chart.Thresholds), len(cfg.Chart.Palette))
	}
	if cfg.Chart.Highlight.Duration != 100*time.Millisecond {
		t.Errorf("expected 100ms highlight, got %v", cfg.Chart.Highlight.Duration)
	}
	if cfg.Labels.Name != "Country" {
		t.Errorf("expected name label 'Country', got %q", cfg.Labels.Name)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Chart.CanvasSize != 700 {
		t.Errorf("expected default config, got canvas %g", cfg.Chart.CanvasSize)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
chart:
  canvas_size: 500
  padding: 1.5
  thresholds: [10, 100]
  palette: ["#ffffff", "#888888", "#000000"]
  highlight:
    width: 4
    duration: 250ms

zoom:
  min_scale: 0.5
  max_scale: 8
  translate_extent: [0, 0, 500, 500]

data:
  path: ~/data/refugees.db
  table: camps

labels:
  name: Region
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Chart.CanvasSize != 500 {
		t.Errorf("expected canvas 500, got %g", cfg.Chart.CanvasSize)
	}
	if cfg.Chart.Padding != 1.5 {
		t.Errorf("expected padding 1.5, got %g", cfg.Chart.Padding)
	}
	if len(cfg.Chart.Thresholds) != 2 || cfg.Chart.Thresholds[1] != 100 {
		t.Errorf("expected thresholds [10 100], got %v", cfg.Chart.Thresholds)
	}
	if cfg.Chart.Highlight.Duration != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", cfg.Chart.Highlight.Duration)
	}
	// Unset keys keep their defaults.
	if cfg.Chart.Highlight.Color != "#000000" {
		t.Errorf("expected default highlight colour, got %q", cfg.Chart.Highlight.Color)
	}
	if cfg.Chart.Inset != 2 {
		t.Errorf("expected default inset 2, got %g", cfg.Chart.Inset)
	}
	if cfg.Labels.Value != "Number of refugees" {
		t.Errorf("expected default value label, got %q", cfg.Labels.Value)
	}

	if cfg.Zoom.MaxScale != 8 || len(cfg.Zoom.TranslateExtent) != 4 {
		t.Errorf("unexpected zoom config %+v", cfg.Zoom)
	}

	// Path should have ~ expanded
	home, _ := os.UserHomeDir()
	expectedPath := filepath.Join(home, "data/refugees.db")
	if cfg.Data.Path != expectedPath {
		t.Errorf("expected expanded path %q, got %q", expectedPath, cfg.Data.Path)
	}
	if cfg.Data.Table != "camps" {
		t.Errorf("expected table 'camps', got %q", cfg.Data.Table)
	}
	if cfg.Labels.Name != "Region" {
		t.Errorf("expected name label 'Region', got %q", cfg.Labels.Name)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFrom_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
chart:
  thresholds: [300, 30]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "ascending") {
		t.Errorf("expected ascending-thresholds error, got %v", err)
	}
	if !strings.Contains(err.Error(), "palette") {
		t.Errorf("expected palette size error as well, got %v", err)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Chart.CanvasSize = 900
	cfg.Chart.Highlight.Duration = 300 * time.Millisecond
	cfg.Zoom.MaxScale = 16
	cfg.Data.Path = "/srv/refugees.jsonl"

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}

	if loaded.Chart.CanvasSize != 900 {
		t.Errorf("expected 900, got %g", loaded.Chart.CanvasSize)
	}
	if loaded.Chart.Highlight.Duration != 300*time.Millisecond {
		t.Errorf("expected 300ms, got %v", loaded.Chart.Highlight.Duration)
	}
	if loaded.Zoom.MaxScale != 16 {
		t.Errorf("expected max scale 16, got %g", loaded.Zoom.MaxScale)
	}
	if loaded.Data.Path != "/srv/refugees.jsonl" {
		t.Errorf("expected data path preserved, got %q", loaded.Data.Path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero canvas", func(c *Config) { c.Chart.CanvasSize = 0 }, "canvas_size"},
		{"inset too large", func(c *Config) { c.Chart.Inset = 700 }, "inset"},
		{"negative padding", func(c *Config) { c.Chart.Padding = -1 }, "padding"},
		{"duplicate threshold", func(c *Config) { c.Chart.Thresholds[2] = c.Chart.Thresholds[1] }, "ascending"},
		{"short palette", func(c *Config) { c.Chart.Palette = c.Chart.Palette[:3] }, "palette"},
		{"zero row height", func(c *Config) { c.Chart.LegendRowHeight = 0 }, "legend_row_height"},
		{"min above max", func(c *Config) { c.Zoom.MinScale, c.Zoom.MaxScale = 4, 2 }, "min_scale"},
		{"short extent", func(c *Config) { c.Zoom.TranslateExtent = []float64{0, 0, 1} }, "translate_extent"},
		{"inverted extent", func(c *Config) { c.Zoom.TranslateExtent = []float64{10, 0, 0, 10} }, "translate_extent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/", filepath.Join(home, "")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
		{"", ""},
	}

	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got := ConfigDir()
	expected := filepath.Join(dir, "bubbles")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
	if ConfigPath() != filepath.Join(expected, "config.yaml") {
		t.Errorf("unexpected config path %q", ConfigPath())
	}
}

func TestDataDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got := DataDir()
	expected := filepath.Join(dir, "bubbles")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestLoad_UsesXDGPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := DefaultConfig()
	cfg.Chart.Padding = 5
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Chart.Padding != 5 {
		t.Errorf("expected padding 5, got %g", loaded.Chart.Padding)
	}
}
