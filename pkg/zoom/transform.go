// Package zoom implements the pan/zoom viewport: a uniform scale plus a
// translation applied to the whole chart, driven by drag and wheel gestures.
package zoom

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Transform maps canvas coordinates to screen coordinates:
// screen = canvas*K + (X, Y).
type Transform struct {
	X, Y float64
	K    float64
}

// Identity is the transform of an untouched viewport.
var Identity = Transform{K: 1}

// Apply maps a canvas point to the screen.
func (t Transform) Apply(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(t.K, p), r2.Vec{X: t.X, Y: t.Y})
}

// Invert maps a screen point back to the canvas.
func (t Transform) Invert(p r2.Vec) r2.Vec {
	return r2.Scale(1/t.K, r2.Sub(p, r2.Vec{X: t.X, Y: t.Y}))
}

// Pan shifts the view by a screen-space offset.
func (t Transform) Pan(dx, dy float64) Transform {
	return Transform{X: t.X + dx, Y: t.Y + dy, K: t.K}
}

// ScaleAt multiplies the scale by factor while keeping the canvas point
// under the screen point p fixed.
func (t Transform) ScaleAt(factor float64, p r2.Vec) Transform {
	c := t.Invert(p)
	k := t.K * factor
	return Transform{X: p.X - c.X*k, Y: p.Y - c.Y*k, K: k}
}

// translate moves by a canvas-space offset.
func (t Transform) translate(x, y float64) Transform {
	return Transform{X: t.X + t.K*x, Y: t.Y + t.K*y, K: t.K}
}

// IsIdentity reports whether the transform leaves coordinates unchanged.
func (t Transform) IsIdentity() bool {
	return t == Identity
}

// String renders the transform as an SVG transform attribute value.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", t.X, t.Y, t.K)
}
