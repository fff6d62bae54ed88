package chart

import (
	"image/color"
	"time"

	"github.com/vanderheijden86/bubbles/pkg/model"
	"github.com/vanderheijden86/bubbles/pkg/scale"
	"github.com/vanderheijden86/bubbles/pkg/zoom"
)

// Scene is the complete set of visual primitives of one drawn chart.
// Renderers paint Bubbles, then Legend, then Popup, all inside one group
// carrying Transform; the popup is therefore always on top.
type Scene struct {
	Width, Height float64
	Transform     zoom.Transform
	Bubbles       []Bubble
	Legend        Legend
	Popup         *Popup
	// Generation counts draws of the owning controller, starting at 1.
	Generation int
}

// Bubble is the circle of one data point.
type Bubble struct {
	ID     model.PointID
	Point  model.DataPoint
	X, Y   float64
	R      float64
	Fill   color.RGBA
	Bucket int

	strokeColor color.RGBA
	stroke      Transition
}

// Stroke is an outline drawn around a bubble.
type Stroke struct {
	Color color.RGBA
	Width float64
}

// StrokeAt returns the outline at time now, or false when the bubble has
// no outline.
func (b *Bubble) StrokeAt(now time.Time) (Stroke, bool) {
	w := b.stroke.Value(now)
	if w <= 0 {
		return Stroke{}, false
	}
	return Stroke{Color: b.strokeColor, Width: w}, true
}

// Animating reports whether the bubble's stroke is still changing.
func (b *Bubble) Animating(now time.Time) bool {
	return b.stroke.Running(now)
}

// settle drops a finished transition that ended without a stroke, so the
// bubble is indistinguishable from a freshly drawn one.
func (b *Bubble) settle(now time.Time) {
	if !b.stroke.Running(now) && b.stroke.To == 0 {
		b.stroke = Transition{}
		b.strokeColor = color.RGBA{}
	}
}

// Legend is the colour key anchored at the canvas's right edge. Entries are
// right-aligned at X and stacked downwards from the top.
type Legend struct {
	X        float64
	FontSize float64
	Entries  []scale.LegendEntry
}

// Popup is the detail box of the selected data point.
type Popup struct {
	ID       model.PointID
	Point    model.DataPoint
	X, Y     float64
	FontSize float64
	Lines    []TextLine
}

// TextLine is one line of popup text, DY below the popup origin.
type TextLine struct {
	Text string
	DY   float64
	Bold bool
}

// Text returns the popup lines joined by newlines.
func (p *Popup) Text() string {
	s := ""
	for i, l := range p.Lines {
		if i > 0 {
			s += "\n"
		}
		s += l.Text
	}
	return s
}
