// Package scale maps values onto discrete colour buckets.
package scale

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorScale assigns each value to a bucket and each bucket to a colour.
type ColorScale interface {
	// Bucket returns the index of the bucket containing v.
	Bucket(v float64) int
	// Color returns the colour of the bucket containing v.
	Color(v float64) color.RGBA
	// Thresholds returns the sorted bucket boundaries.
	Thresholds() []float64
	// Palette returns one colour per bucket, lowest bucket first.
	Palette() []color.RGBA
}

// DefaultThresholds are the bucket boundaries of the refugee chart.
var DefaultThresholds = []float64{30, 300, 3000, 30000, 300000, 3000000}

// DefaultPalette is the seven-step ColorBrewer Reds scheme.
var DefaultPalette = []string{"#fee5d9", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#99000d"}

var (
	ErrThresholdOrder = errors.New("thresholds must be strictly ascending")
	ErrPaletteSize    = errors.New("palette must have exactly one more colour than thresholds")
)

// Threshold is a step function over half-open intervals:
// bucket i covers [thresholds[i-1], thresholds[i]), with the first bucket
// open below and the last open above. A value equal to a threshold belongs
// to the bucket above it.
type Threshold struct {
	thresholds []float64
	palette    []color.RGBA
}

// NewThreshold validates and builds a threshold scale.
func NewThreshold(thresholds []float64, palette []color.RGBA) (*Threshold, error) {
	for i, t := range thresholds {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("threshold %d is not finite: %w", i, ErrThresholdOrder)
		}
		if i > 0 && t <= thresholds[i-1] {
			return nil, fmt.Errorf("threshold %d (%v) <= threshold %d (%v): %w", i, t, i-1, thresholds[i-1], ErrThresholdOrder)
		}
	}
	if len(palette) != len(thresholds)+1 {
		return nil, fmt.Errorf("%d thresholds need %d colours, got %d: %w",
			len(thresholds), len(thresholds)+1, len(palette), ErrPaletteSize)
	}
	return &Threshold{
		thresholds: append([]float64(nil), thresholds...),
		palette:    append([]color.RGBA(nil), palette...),
	}, nil
}

// Default returns the scale used by the refugee chart.
func Default() *Threshold {
	palette, err := ParsePalette(DefaultPalette)
	if err != nil {
		panic(err)
	}
	s, err := NewThreshold(DefaultThresholds, palette)
	if err != nil {
		panic(err)
	}
	return s
}

// Bucket returns how many thresholds are <= v.
func (s *Threshold) Bucket(v float64) int {
	return sort.Search(len(s.thresholds), func(i int) bool { return s.thresholds[i] > v })
}

func (s *Threshold) Color(v float64) color.RGBA {
	return s.palette[s.Bucket(v)]
}

func (s *Threshold) Thresholds() []float64 {
	return append([]float64(nil), s.thresholds...)
}

func (s *Threshold) Palette() []color.RGBA {
	return append([]color.RGBA(nil), s.palette...)
}

// Extent returns the half-open interval [lo, hi) covered by bucket i.
// The first bucket starts at -Inf and the last ends at +Inf.
func (s *Threshold) Extent(i int) (lo, hi float64) {
	lo, hi = math.Inf(-1), math.Inf(1)
	if i > 0 && i <= len(s.thresholds) {
		lo = s.thresholds[i-1]
	}
	if i >= 0 && i < len(s.thresholds) {
		hi = s.thresholds[i]
	}
	return lo, hi
}

// ParsePalette parses hex colours such as "#fc9272".
func ParsePalette(hex []string) ([]color.RGBA, error) {
	out := make([]color.RGBA, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("palette colour %d (%q): %w", i, h, err)
		}
		r, g, b := c.RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return out, nil
}

// Hex formats a colour as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
