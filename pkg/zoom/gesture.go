package zoom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// GestureKind identifies a pan/zoom input.
type GestureKind int

const (
	DragStart GestureKind = iota
	DragMove
	DragEnd
	Wheel
	Pinch
	Reset
)

func (k GestureKind) String() string {
	switch k {
	case DragStart:
		return "drag-start"
	case DragMove:
		return "drag-move"
	case DragEnd:
		return "drag-end"
	case Wheel:
		return "wheel"
	case Pinch:
		return "pinch"
	case Reset:
		return "reset"
	}
	return "unknown"
}

// GestureEvent is one pointer input in screen coordinates.
type GestureEvent struct {
	Kind   GestureKind
	Pos    r2.Vec
	DeltaY float64 // Wheel: pixels scrolled, positive = away from the user
	Scale  float64 // Pinch: relative scale factor
}

// GestureTransform turns a gesture stream into viewport transforms.
type GestureTransform interface {
	Handle(ev GestureEvent) Transform
	Transform() Transform
	Reset()
}

// Extent is an axis-aligned canvas region.
type Extent struct {
	Min, Max r2.Vec
}

// Bounds optionally limit the viewport. The zero value is unbounded: the
// content can be zoomed and panned arbitrarily far.
type Bounds struct {
	MinScale float64 // 0 = no lower limit
	MaxScale float64 // 0 = no upper limit
	// Translate keeps this canvas region covering the viewport when set.
	Translate *Extent
}

// wheelFactor converts wheel pixels into a zoom exponent (base 2).
const wheelFactor = 0.002

// Gesture is the default GestureTransform: drag to pan, wheel or pinch to
// zoom around the pointer.
type Gesture struct {
	t        Transform
	bounds   Bounds
	viewport r2.Vec
	dragging bool
	last     r2.Vec
}

// NewGesture creates a recognizer for a viewport of the given size.
func NewGesture(width, height float64, bounds Bounds) *Gesture {
	return &Gesture{t: Identity, bounds: bounds, viewport: r2.Vec{X: width, Y: height}}
}

// Transform returns the current viewport transform.
func (g *Gesture) Transform() Transform {
	return g.t
}

// Reset returns to the identity transform and abandons any drag.
func (g *Gesture) Reset() {
	g.t = Identity
	g.dragging = false
}

// Handle applies one gesture and returns the resulting transform. Moves
// without a preceding DragStart are ignored.
func (g *Gesture) Handle(ev GestureEvent) Transform {
	switch ev.Kind {
	case DragStart:
		g.dragging = true
		g.last = ev.Pos
	case DragMove:
		if !g.dragging {
			return g.t
		}
		d := r2.Sub(ev.Pos, g.last)
		g.last = ev.Pos
		g.t = g.constrain(g.t.Pan(d.X, d.Y))
	case DragEnd:
		g.dragging = false
	case Wheel:
		g.zoom(math.Pow(2, -ev.DeltaY*wheelFactor), ev.Pos)
	case Pinch:
		if ev.Scale > 0 {
			g.zoom(ev.Scale, ev.Pos)
		}
	case Reset:
		g.Reset()
	}
	return g.t
}

func (g *Gesture) zoom(factor float64, at r2.Vec) {
	k := g.clampScale(g.t.K * factor)
	if k == g.t.K {
		return
	}
	g.t = g.constrain(g.t.ScaleAt(k/g.t.K, at))
}

func (g *Gesture) clampScale(k float64) float64 {
	if g.bounds.MinScale > 0 && k < g.bounds.MinScale {
		k = g.bounds.MinScale
	}
	if g.bounds.MaxScale > 0 && k > g.bounds.MaxScale {
		k = g.bounds.MaxScale
	}
	return k
}

// constrain nudges t so the translate extent keeps covering the viewport,
// centring the extent when it is smaller than the view.
func (g *Gesture) constrain(t Transform) Transform {
	e := g.bounds.Translate
	if e == nil {
		return t
	}
	v0 := t.Invert(r2.Vec{})
	v1 := t.Invert(g.viewport)
	dx0, dx1 := v0.X-e.Min.X, v1.X-e.Max.X
	dy0, dy1 := v0.Y-e.Min.Y, v1.Y-e.Max.Y
	return t.translate(shift(dx0, dx1), shift(dy0, dy1))
}

func shift(d0, d1 float64) float64 {
	if d1 > d0 {
		return (d0 + d1) / 2
	}
	if m := math.Min(0, d0); m != 0 {
		return m
	}
	return math.Max(0, d1)
}
