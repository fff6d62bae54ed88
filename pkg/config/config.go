// Package config handles loading and saving bubbles configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/bubbles/config.yaml
//   - Data:    ~/.local/share/bubbles/ (datasets, exported charts)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HighlightConfig is the hover stroke.
type HighlightConfig struct {
	Width    float64       `yaml:"width"`
	Color    string        `yaml:"color"`
	Duration time.Duration `yaml:"duration"` // e.g. 100ms
}

// ChartConfig holds the geometry and colours of the chart.
type ChartConfig struct {
	CanvasSize      float64         `yaml:"canvas_size"`
	Padding         float64         `yaml:"padding"`
	Inset           float64         `yaml:"inset"` // total margin; bubbles are offset by inset/2
	Thresholds      []float64       `yaml:"thresholds"`
	Palette         []string        `yaml:"palette"` // one hex colour per bucket
	LegendRowHeight float64         `yaml:"legend_row_height"`
	PopupOffset     float64         `yaml:"popup_offset"`
	Highlight       HighlightConfig `yaml:"highlight"`
}

// ZoomConfig optionally bounds the viewport. Zero values mean unbounded.
type ZoomConfig struct {
	MinScale        float64   `yaml:"min_scale,omitempty"`
	MaxScale        float64   `yaml:"max_scale,omitempty"`
	TranslateExtent []float64 `yaml:"translate_extent,omitempty"` // [x0, y0, x1, y1]
}

// DataConfig selects the dataset. An empty Path uses the bundled fixture.
type DataConfig struct {
	Path  string `yaml:"path,omitempty"`
	Table string `yaml:"table,omitempty"` // SQLite table
}

// LabelsConfig holds the popup captions.
type LabelsConfig struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Config is the top-level configuration for bubbles.
type Config struct {
	Chart  ChartConfig  `yaml:"chart"`
	Zoom   ZoomConfig   `yaml:"zoom,omitempty"`
	Data   DataConfig   `yaml:"data,omitempty"`
	Labels LabelsConfig `yaml:"labels"`
}

// DefaultConfig returns the configuration of the refugee chart.
func DefaultConfig() Config {
	return Config{
		Chart: ChartConfig{
			CanvasSize:      700,
			Padding:         3,
			Inset:           2,
			Thresholds:      []float64{30, 300, 3000, 30000, 300000, 3000000},
			Palette:         []string{"#fee5d9", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#99000d"},
			LegendRowHeight: 20,
			PopupOffset:     30,
			Highlight: HighlightConfig{
				Width:    7,
				Color:    "#000000",
				Duration: 100 * time.Millisecond,
			},
		},
		Data: DataConfig{
			Table: "refugees",
		},
		Labels: LabelsConfig{
			Name:  "Country",
			Value: "Number of refugees",
		},
	}
}

// ConfigDir returns the XDG config directory for bubbles.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "bubbles")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bubbles")
}

// DataDir returns the XDG data directory for bubbles.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "bubbles")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "bubbles")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Data.Path = expandHome(cfg.Data.Path)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate reports every inconsistent setting.
func (c Config) Validate() error {
	var errs []error
	ch := c.Chart

	if ch.CanvasSize <= 0 {
		errs = append(errs, fmt.Errorf("chart.canvas_size must be positive, got %g", ch.CanvasSize))
	}
	if ch.Inset < 0 || (ch.CanvasSize > 0 && ch.Inset >= ch.CanvasSize) {
		errs = append(errs, fmt.Errorf("chart.inset %g out of range", ch.Inset))
	}
	if ch.Padding < 0 {
		errs = append(errs, fmt.Errorf("chart.padding must not be negative, got %g", ch.Padding))
	}
	for i := 1; i < len(ch.Thresholds); i++ {
		if ch.Thresholds[i] <= ch.Thresholds[i-1] {
			errs = append(errs, fmt.Errorf("chart.thresholds must be strictly ascending at index %d", i))
			break
		}
	}
	if len(ch.Palette) != len(ch.Thresholds)+1 {
		errs = append(errs, fmt.Errorf("chart.palette needs %d colours, got %d", len(ch.Thresholds)+1, len(ch.Palette)))
	}
	if ch.LegendRowHeight <= 0 {
		errs = append(errs, fmt.Errorf("chart.legend_row_height must be positive, got %g", ch.LegendRowHeight))
	}
	if ch.Highlight.Width < 0 {
		errs = append(errs, fmt.Errorf("chart.highlight.width must not be negative"))
	}
	if ch.Highlight.Duration < 0 {
		errs = append(errs, fmt.Errorf("chart.highlight.duration must not be negative"))
	}

	z := c.Zoom
	if z.MinScale < 0 || z.MaxScale < 0 {
		errs = append(errs, fmt.Errorf("zoom scales must not be negative"))
	}
	if z.MinScale > 0 && z.MaxScale > 0 && z.MinScale > z.MaxScale {
		errs = append(errs, fmt.Errorf("zoom.min_scale %g exceeds zoom.max_scale %g", z.MinScale, z.MaxScale))
	}
	if n := len(z.TranslateExtent); n != 0 {
		if n != 4 {
			errs = append(errs, fmt.Errorf("zoom.translate_extent needs 4 numbers, got %d", n))
		} else if z.TranslateExtent[0] >= z.TranslateExtent[2] || z.TranslateExtent[1] >= z.TranslateExtent[3] {
			errs = append(errs, fmt.Errorf("zoom.translate_extent must be [x0, y0, x1, y1] with x0<x1 and y0<y1"))
		}
	}

	return errors.Join(errs...)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
