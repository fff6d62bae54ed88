// Package testutil provides dataset generators and geometry assertions for
// chart tests. The seeded generators produce deterministic output; the
// rapid generators drive property tests.
package testutil

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/vanderheijden86/bubbles/pkg/model"

	"pgregory.net/rapid"
)

// GeneratorConfig controls dataset generation.
type GeneratorConfig struct {
	Seed       uint64  // Random seed for determinism
	NamePrefix string  // Prefix for generated names (default: "Country")
	MaxValue   float64 // Upper bound for values (default: 3e6)
	ZeroRatio  float64 // Fraction of points forced to zero, like small territories
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:       42,
		NamePrefix: "Country",
		MaxValue:   3e6,
		ZeroRatio:  0.05,
	}
}

// Generator creates deterministic datasets.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.NamePrefix == "" {
		cfg.NamePrefix = "Country"
	}
	if cfg.MaxValue <= 0 {
		cfg.MaxValue = 3e6
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5bd1e995)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Dataset returns n points whose values are spread log-uniformly over
// [1, MaxValue], so every colour bucket is likely to be hit.
func (g *Generator) Dataset(n int) []model.DataPoint {
	points := make([]model.DataPoint, n)
	logMax := math.Log10(g.cfg.MaxValue)
	for i := range points {
		v := math.Round(math.Pow(10, g.rng.Float64()*logMax))
		if g.rng.Float64() < g.cfg.ZeroRatio {
			v = 0
		}
		points[i] = model.DataPoint{Name: fmt.Sprintf("%s %03d", g.cfg.NamePrefix, i), Value: v}
	}
	return points
}

// Records returns the wire form of Dataset(n), values encoded as strings.
func (g *Generator) Records(n int) []model.Record {
	points := g.Dataset(n)
	records := make([]model.Record, len(points))
	for i, p := range points {
		records[i] = model.Record{Name: p.Name, Value: fmt.Sprintf("%.0f", p.Value)}
	}
	return records
}

// Values draws between minLen and maxLen non-negative values. Roughly one in
// eight is zero and the rest span several orders of magnitude.
func Values(minLen, maxLen int) *rapid.Generator[[]float64] {
	value := rapid.Custom(func(t *rapid.T) float64 {
		if rapid.IntRange(0, 7).Draw(t, "zero") == 0 {
			return 0
		}
		exp := rapid.Float64Range(0, 7).Draw(t, "exp")
		return math.Round(math.Pow(10, exp))
	})
	return rapid.SliceOfN(value, minLen, maxLen)
}

// DataPoints draws a dataset of between minLen and maxLen points.
func DataPoints(minLen, maxLen int) *rapid.Generator[[]model.DataPoint] {
	return rapid.Custom(func(t *rapid.T) []model.DataPoint {
		values := Values(minLen, maxLen).Draw(t, "values")
		points := make([]model.DataPoint, len(values))
		for i, v := range values {
			points[i] = model.DataPoint{Name: fmt.Sprintf("P%d", i), Value: v}
		}
		return points
	})
}
