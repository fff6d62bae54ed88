// Package chart turns a list of data points into an interactive bubble chart.
//
// A Controller owns the data, the circle packing, the colour scale and the
// interaction state. Every Draw builds a fresh Scene and mounts it on the
// controller's Surface; pointer events and pan/zoom gestures then mutate that
// scene in place.
package chart

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/bubbles/pkg/debug"
	"github.com/vanderheijden86/bubbles/pkg/layout"
	"github.com/vanderheijden86/bubbles/pkg/metrics"
	"github.com/vanderheijden86/bubbles/pkg/model"
	"github.com/vanderheijden86/bubbles/pkg/scale"
	"github.com/vanderheijden86/bubbles/pkg/zoom"
)

// Controller drives one chart. It is not safe for concurrent use; callers
// serialize Draw, Dispatch and Gesture the way a UI event loop does.
type Controller struct {
	points  []model.DataPoint
	surface Surface
	opts    Options

	layout  layout.PackLayout
	scale   scale.ColorScale
	gesture zoom.GestureTransform

	scene *Scene
	draws int

	hovered   model.PointID
	hovering  bool
	selected  model.PointID
	selecting bool
}

// New validates points and resolves containerID against surfaces. The chart
// is not drawn until Draw is called.
func New(points []model.DataPoint, surfaces Surfaces, containerID string, opts ...Option) (*Controller, error) {
	if err := model.Validate(points); err != nil {
		return nil, err
	}
	surface, ok := surfaces.Lookup(containerID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingContainer, containerID)
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.CanvasSize <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %g", o.CanvasSize)
	}
	if o.Inset < 0 || o.Inset >= o.CanvasSize {
		return nil, fmt.Errorf("inset %g out of range for canvas %g", o.Inset, o.CanvasSize)
	}
	if o.Padding < 0 {
		return nil, fmt.Errorf("padding must not be negative, got %g", o.Padding)
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}

	c := &Controller{
		points:  append([]model.DataPoint(nil), points...),
		surface: surface,
		opts:    o,
		layout:  o.Layout,
		scale:   o.Scale,
		gesture: o.Gesture,
	}
	if c.scale == nil {
		s, err := scale.NewThreshold(o.Thresholds, o.Palette)
		if err != nil {
			return nil, fmt.Errorf("color scale: %w", err)
		}
		c.scale = s
	}
	if c.layout == nil {
		side := o.CanvasSize - o.Inset
		c.layout = layout.NewPack(side, side, o.Padding)
	}
	if c.gesture == nil {
		c.gesture = zoom.NewGesture(o.CanvasSize, o.CanvasSize, o.ZoomBounds)
	}
	return c, nil
}

// SetData replaces the data points. The change is visible after the next
// Draw.
func (c *Controller) SetData(points []model.DataPoint) error {
	if err := model.Validate(points); err != nil {
		return err
	}
	c.points = append([]model.DataPoint(nil), points...)
	return nil
}

// Points returns the controller's data points in input order.
func (c *Controller) Points() []model.DataPoint {
	return c.points
}

// Options returns the resolved options.
func (c *Controller) Options() Options {
	return c.opts
}

// Scale returns the colour scale.
func (c *Controller) Scale() scale.ColorScale {
	return c.scale
}

// Scene returns the currently mounted scene, or nil before the first Draw.
func (c *Controller) Scene() *Scene {
	return c.scene
}

// Draw packs the data, builds a new scene and mounts it, discarding the
// previous scene together with any hover, selection, popup and zoom state.
func (c *Controller) Draw() error {
	defer debug.LogEnterExit("chart.Draw")()
	stop := metrics.Timer(metrics.SceneBuild)

	values := make([]float64, len(c.points))
	for i, p := range c.points {
		values[i] = p.Value
	}
	circles := c.layout.Pack(values)
	if len(circles) != len(values) {
		stop()
		return fmt.Errorf("layout returned %d circles for %d points", len(circles), len(values))
	}

	off := c.opts.Inset / 2
	bubbles := make([]Bubble, len(c.points))
	for i, p := range c.points {
		bubbles[i] = Bubble{
			ID:     model.PointID(i),
			Point:  p,
			X:      circles[i].Center.X + off,
			Y:      circles[i].Center.Y + off,
			R:      circles[i].R,
			Fill:   c.scale.Color(p.Value),
			Bucket: c.scale.Bucket(p.Value),
		}
	}

	c.gesture.Reset()
	c.hovering, c.selecting = false, false
	c.draws++
	c.scene = &Scene{
		Width:     c.opts.CanvasSize,
		Height:    c.opts.CanvasSize,
		Transform: c.gesture.Transform(),
		Bubbles:   bubbles,
		Legend: Legend{
			X:        c.opts.CanvasSize,
			FontSize: c.opts.LegendFontSize,
			Entries:  scale.Legend(c.scale, c.opts.LegendRowHeight, 0),
		},
		Generation: c.draws,
	}
	stop()

	if err := c.surface.Mount(c.scene); err != nil {
		return fmt.Errorf("mount scene: %w", err)
	}
	debug.Log("chart: drew %d bubbles (generation %d)", len(bubbles), c.draws)
	return nil
}

// Dispatch applies a pointer event. It returns false when nothing is drawn
// yet or the event names an unknown point.
func (c *Controller) Dispatch(ev Event) bool {
	b := c.bubble(ev.PointID)
	if b == nil {
		debug.Log("chart: ignoring %s for unknown point %d", ev.Kind, ev.PointID)
		return false
	}
	now := c.opts.Clock()
	hl := c.opts.Highlight

	switch ev.Kind {
	case PointerEnter:
		if c.hovering && c.hovered != ev.PointID {
			c.leave(c.hovered, now)
		}
		b.strokeColor = hl.Color
		b.stroke = b.stroke.retarget(hl.Width, now, hl.Duration)
		c.hovered, c.hovering = ev.PointID, true
	case PointerLeave:
		c.leave(ev.PointID, now)
	case Click:
		c.scene.Popup = c.popup(b)
		c.selected, c.selecting = ev.PointID, true
	default:
		return false
	}
	return true
}

func (c *Controller) leave(id model.PointID, now time.Time) {
	if b := c.bubble(id); b != nil {
		b.stroke = b.stroke.retarget(0, now, c.opts.Highlight.Duration)
	}
	if c.hovering && c.hovered == id {
		c.hovering = false
	}
}

func (c *Controller) popup(b *Bubble) *Popup {
	o := c.opts
	return &Popup{
		ID:       b.ID,
		Point:    b.Point,
		X:        0,
		Y:        o.PopupOffset,
		FontSize: o.PopupFontSize,
		Lines: []TextLine{
			{Text: o.NameLabel + ": " + b.Point.Name, Bold: true},
			{Text: o.ValueLabel + ": " + model.FormatValue(b.Point.Value), DY: o.PopupLineHeight, Bold: true},
		},
	}
}

func (c *Controller) bubble(id model.PointID) *Bubble {
	if c.scene == nil || id < 0 || int(id) >= len(c.scene.Bubbles) {
		return nil
	}
	return &c.scene.Bubbles[id]
}

// Bubble returns the bubble of id in the current scene.
func (c *Controller) Bubble(id model.PointID) (*Bubble, bool) {
	b := c.bubble(id)
	return b, b != nil
}

// Gesture feeds a pan/zoom input to the recognizer and applies the
// resulting transform to the whole scene.
func (c *Controller) Gesture(ev zoom.GestureEvent) zoom.Transform {
	t := c.gesture.Handle(ev)
	if c.scene != nil {
		c.scene.Transform = t
	}
	return t
}

// HitTest returns the topmost bubble under a screen position. Bubbles with
// zero radius cannot be hit.
func (c *Controller) HitTest(x, y float64) (model.PointID, bool) {
	if c.scene == nil {
		return 0, false
	}
	p := c.scene.Transform.Invert(r2.Vec{X: x, Y: y})
	for i := len(c.scene.Bubbles) - 1; i >= 0; i-- {
		b := &c.scene.Bubbles[i]
		if b.R <= 0 {
			continue
		}
		if r2.Norm(r2.Sub(p, r2.Vec{X: b.X, Y: b.Y})) <= b.R {
			return b.ID, true
		}
	}
	return 0, false
}

// Animating reports whether any highlight transition is still running.
func (c *Controller) Animating(now time.Time) bool {
	if c.scene == nil {
		return false
	}
	for i := range c.scene.Bubbles {
		if c.scene.Bubbles[i].Animating(now) {
			return true
		}
	}
	return false
}

// Tick settles finished transitions and reports whether any are still
// running.
func (c *Controller) Tick(now time.Time) bool {
	if c.scene == nil {
		return false
	}
	running := false
	for i := range c.scene.Bubbles {
		b := &c.scene.Bubbles[i]
		b.settle(now)
		running = running || b.Animating(now)
	}
	return running
}

// State returns the interaction state.
func (c *Controller) State() State {
	switch {
	case c.hovering:
		return State{Kind: Hovering, PointID: c.hovered}
	case c.selecting:
		return State{Kind: Selected, PointID: c.selected}
	}
	return State{Kind: Idle}
}

// Hovered returns the bubble under the pointer, if any.
func (c *Controller) Hovered() (model.PointID, bool) {
	return c.hovered, c.hovering
}

// Selected returns the bubble whose popup is shown, if any.
func (c *Controller) Selected() (model.PointID, bool) {
	return c.selected, c.selecting
}
