package chart

import (
	"image/color"
	"time"

	"github.com/vanderheijden86/bubbles/pkg/config"
	"github.com/vanderheijden86/bubbles/pkg/layout"
	"github.com/vanderheijden86/bubbles/pkg/scale"
	"github.com/vanderheijden86/bubbles/pkg/zoom"
)

// Highlight is the stroke drawn around a hovered bubble.
type Highlight struct {
	Width    float64
	Color    color.RGBA
	Duration time.Duration
}

// Options configure a Controller. Use the With* functions; unset fields
// fall back to the defaults of the refugee chart.
type Options struct {
	CanvasSize      float64
	Padding         float64
	Inset           float64
	Thresholds      []float64
	Palette         []color.RGBA
	LegendRowHeight float64
	LegendFontSize  float64
	PopupOffset     float64
	PopupFontSize   float64
	PopupLineHeight float64
	NameLabel       string
	ValueLabel      string
	Highlight       Highlight
	ZoomBounds      zoom.Bounds

	Layout  layout.PackLayout
	Scale   scale.ColorScale
	Gesture zoom.GestureTransform
	Clock   func() time.Time
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the configuration of the original chart.
func DefaultOptions() Options {
	palette, _ := scale.ParsePalette(scale.DefaultPalette)
	return Options{
		CanvasSize:      700,
		Padding:         3,
		Inset:           2,
		Thresholds:      append([]float64(nil), scale.DefaultThresholds...),
		Palette:         palette,
		LegendRowHeight: 20,
		LegendFontSize:  14,
		PopupOffset:     30,
		PopupFontSize:   18,
		PopupLineHeight: 20,
		NameLabel:       "Country",
		ValueLabel:      "Number of refugees",
		Highlight: Highlight{
			Width:    7,
			Color:    color.RGBA{A: 0xff},
			Duration: 100 * time.Millisecond,
		},
		Clock: time.Now,
	}
}

// WithCanvasSize sets the side of the square canvas.
func WithCanvasSize(size float64) Option {
	return func(o *Options) { o.CanvasSize = size }
}

// WithPadding sets the gap between sibling circles.
func WithPadding(p float64) Option {
	return func(o *Options) { o.Padding = p }
}

// WithInset sets the total margin between the packing and the canvas edge.
func WithInset(inset float64) Option {
	return func(o *Options) { o.Inset = inset }
}

// WithThresholds sets the colour bucket boundaries.
func WithThresholds(t []float64) Option {
	return func(o *Options) { o.Thresholds = append([]float64(nil), t...) }
}

// WithPalette sets one colour per bucket.
func WithPalette(p []color.RGBA) Option {
	return func(o *Options) { o.Palette = append([]color.RGBA(nil), p...) }
}

// WithLegendRowHeight sets the vertical distance between legend rows.
func WithLegendRowHeight(h float64) Option {
	return func(o *Options) { o.LegendRowHeight = h }
}

// WithPopupOffset sets how far below the canvas origin the detail popup sits.
func WithPopupOffset(y float64) Option {
	return func(o *Options) { o.PopupOffset = y }
}

// WithPopupLabels sets the captions of the popup's name and value lines.
func WithPopupLabels(name, value string) Option {
	return func(o *Options) {
		o.NameLabel = name
		o.ValueLabel = value
	}
}

// WithHighlight sets the hover stroke.
func WithHighlight(h Highlight) Option {
	return func(o *Options) { o.Highlight = h }
}

// WithZoomBounds limits the pan/zoom viewport.
func WithZoomBounds(b zoom.Bounds) Option {
	return func(o *Options) { o.ZoomBounds = b }
}

// WithLayout replaces the circle packer.
func WithLayout(l layout.PackLayout) Option {
	return func(o *Options) { o.Layout = l }
}

// WithColorScale replaces the threshold colour scale; thresholds and
// palette options are then ignored.
func WithColorScale(s scale.ColorScale) Option {
	return func(o *Options) { o.Scale = s }
}

// WithGesture replaces the pan/zoom recognizer.
func WithGesture(g zoom.GestureTransform) Option {
	return func(o *Options) { o.Gesture = g }
}

// WithClock sets the time source used for transitions.
func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.Clock = now }
}

// OptionsFromConfig translates the chart and zoom sections of a config.
func OptionsFromConfig(cfg config.Config) ([]Option, error) {
	palette, err := scale.ParsePalette(cfg.Chart.Palette)
	if err != nil {
		return nil, err
	}
	hl, err := scale.ParsePalette([]string{cfg.Chart.Highlight.Color})
	if err != nil {
		return nil, err
	}

	bounds := zoom.Bounds{MinScale: cfg.Zoom.MinScale, MaxScale: cfg.Zoom.MaxScale}
	if ext := cfg.Zoom.TranslateExtent; len(ext) == 4 {
		bounds.Translate = &zoom.Extent{}
		bounds.Translate.Min.X, bounds.Translate.Min.Y = ext[0], ext[1]
		bounds.Translate.Max.X, bounds.Translate.Max.Y = ext[2], ext[3]
	}

	return []Option{
		WithCanvasSize(cfg.Chart.CanvasSize),
		WithPadding(cfg.Chart.Padding),
		WithInset(cfg.Chart.Inset),
		WithThresholds(cfg.Chart.Thresholds),
		WithPalette(palette),
		WithLegendRowHeight(cfg.Chart.LegendRowHeight),
		WithPopupOffset(cfg.Chart.PopupOffset),
		WithPopupLabels(cfg.Labels.Name, cfg.Labels.Value),
		WithHighlight(Highlight{
			Width:    cfg.Chart.Highlight.Width,
			Color:    hl[0],
			Duration: cfg.Chart.Highlight.Duration,
		}),
		WithZoomBounds(bounds),
	}, nil
}
