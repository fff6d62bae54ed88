package chart

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/bubbles/pkg/config"
	"github.com/vanderheijden86/bubbles/pkg/layout"
	"github.com/vanderheijden86/bubbles/pkg/model"
	"github.com/vanderheijden86/bubbles/pkg/scale"
	"github.com/vanderheijden86/bubbles/pkg/testutil"
	"github.com/vanderheijden86/bubbles/pkg/zoom"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// fixedLayout places circles at predetermined positions.
type fixedLayout []layout.Circle

func (f fixedLayout) Pack(values []float64) []layout.Circle {
	return append([]layout.Circle(nil), f[:len(values)]...)
}

func refugees() []model.DataPoint {
	return []model.DataPoint{
		{Name: "Aruba", Value: 0},
		{Name: "Afghanistan", Value: 2681269},
		{Name: "Angola", Value: 8488},
		{Name: "Albania", Value: 11},
	}
}

func newController(t *testing.T, points []model.DataPoint, opts ...Option) (*Controller, *MemorySurface, *fakeClock) {
	t.Helper()
	clock := newClock()
	surface := &MemorySurface{}
	reg := NewRegistry()
	reg.Register("chart", surface)

	opts = append([]Option{WithClock(clock.Now)}, opts...)
	c, err := New(points, reg, "chart", opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := c.Draw(); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	return c, surface, clock
}

func TestNew_MissingContainer(t *testing.T) {
	reg := NewRegistry()
	reg.Register("other", &MemorySurface{})

	_, err := New(refugees(), reg, "chart")
	if !errors.Is(err, ErrMissingContainer) {
		t.Fatalf("expected ErrMissingContainer, got %v", err)
	}
}

func TestNew_RejectsInvalidPoints(t *testing.T) {
	reg := NewRegistry()
	reg.Register("chart", &MemorySurface{})

	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := New([]model.DataPoint{{Name: "X", Value: v}}, reg, "chart")
		if !errors.Is(err, model.ErrInvalidDataPoint) {
			t.Errorf("value %v: expected ErrInvalidDataPoint, got %v", v, err)
		}
	}
}

func TestNew_RejectsBadOptions(t *testing.T) {
	reg := NewRegistry()
	reg.Register("chart", &MemorySurface{})

	tests := []struct {
		name string
		opt  Option
	}{
		{"zero canvas", WithCanvasSize(0)},
		{"inset too large", WithInset(700)},
		{"negative padding", WithPadding(-2)},
		{"palette mismatch", WithPalette(nil)},
	}
	for _, tt := range tests {
		if _, err := New(refugees(), reg, "chart", tt.opt); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestDraw_OneBubblePerPoint(t *testing.T) {
	points := testutil.NewDefault().Dataset(221)
	c, surface, _ := newController(t, points)

	scene := surface.Scene()
	if scene != c.Scene() {
		t.Fatal("surface should hold the controller's scene")
	}
	if len(scene.Bubbles) != len(points) {
		t.Fatalf("expected %d bubbles, got %d", len(points), len(scene.Bubbles))
	}
	if scene.Width != 700 || scene.Height != 700 {
		t.Errorf("expected 700x700 canvas, got %gx%g", scene.Width, scene.Height)
	}
	for i, b := range scene.Bubbles {
		if b.ID != model.PointID(i) || b.Point != points[i] {
			t.Errorf("bubble %d does not match its point", i)
		}
		if b.X-b.R < 1-testutil.Tolerance || b.X+b.R > 699+testutil.Tolerance ||
			b.Y-b.R < 1-testutil.Tolerance || b.Y+b.R > 699+testutil.Tolerance {
			t.Errorf("bubble %d at (%g,%g) r=%g leaves the inset canvas", i, b.X, b.Y, b.R)
		}
	}
	if scene.Popup != nil {
		t.Error("fresh draw should have no popup")
	}
	if !scene.Transform.IsIdentity() {
		t.Errorf("fresh draw should have identity transform, got %s", scene.Transform)
	}
	if len(scene.Legend.Entries) != 7 || scene.Legend.X != 700 {
		t.Errorf("expected 7 legend entries at x=700, got %d at %g", len(scene.Legend.Entries), scene.Legend.X)
	}
}

func TestDraw_EmptyDataset(t *testing.T) {
	_, surface, _ := newController(t, nil)

	scene := surface.Scene()
	if len(scene.Bubbles) != 0 {
		t.Errorf("expected no bubbles, got %d", len(scene.Bubbles))
	}
	if len(scene.Legend.Entries) != 7 {
		t.Errorf("empty chart should still show the legend, got %d entries", len(scene.Legend.Entries))
	}
}

func TestDraw_BubbleColours(t *testing.T) {
	c, _, _ := newController(t, refugees())
	palette := scale.Default().Palette()

	want := []int{0, 5, 3, 0}
	for i, b := range c.Scene().Bubbles {
		if b.Bucket != want[i] || b.Fill != palette[want[i]] {
			t.Errorf("%s: expected bucket %d (%s), got %d (%s)",
				b.Point.Name, want[i], scale.Hex(palette[want[i]]), b.Bucket, scale.Hex(b.Fill))
		}
	}
	if got := scale.Hex(c.Scene().Bubbles[1].Fill); got != "#cb181d" {
		t.Errorf("expected Afghanistan to be #cb181d, got %s", got)
	}
}

func TestDraw_RedrawDoesNotAccumulate(t *testing.T) {
	c, surface, _ := newController(t, refugees())

	c.Dispatch(Event{Kind: PointerEnter, PointID: 1})
	c.Dispatch(Event{Kind: Click, PointID: 1})
	c.Gesture(zoom.GestureEvent{Kind: zoom.Wheel, Pos: r2.Vec{X: 10, Y: 10}, DeltaY: -200})

	for i := 0; i < 3; i++ {
		if err := c.Draw(); err != nil {
			t.Fatalf("redraw %d: %v", i, err)
		}
	}

	scene := surface.Scene()
	if len(scene.Bubbles) != 4 {
		t.Errorf("expected 4 bubbles after redraws, got %d", len(scene.Bubbles))
	}
	if len(scene.Legend.Entries) != 7 {
		t.Errorf("expected 7 legend entries after redraws, got %d", len(scene.Legend.Entries))
	}
	if scene.Popup != nil {
		t.Error("redraw should drop the popup")
	}
	if !scene.Transform.IsIdentity() {
		t.Errorf("redraw should reset the viewport, got %s", scene.Transform)
	}
	if scene.Generation != 4 || surface.Mounts() != 4 {
		t.Errorf("expected generation 4 and 4 mounts, got %d and %d", scene.Generation, surface.Mounts())
	}
	if s := c.State(); s.Kind != Idle {
		t.Errorf("expected idle after redraw, got %s", s)
	}
}

func TestDispatch_HoverCycleRestoresBubble(t *testing.T) {
	c, _, clock := newController(t, refugees())
	b, _ := c.Bubble(2)
	before := *b

	if !c.Dispatch(Event{Kind: PointerEnter, PointID: 2}) {
		t.Fatal("enter should be handled")
	}
	if s := c.State(); s.Kind != Hovering || s.PointID != 2 {
		t.Errorf("expected hovering(2), got %s", s)
	}

	clock.Advance(50 * time.Millisecond)
	mid, ok := b.StrokeAt(clock.Now())
	if !ok || mid.Width <= 0 || mid.Width >= 7 {
		t.Errorf("expected a partial stroke mid-transition, got %+v (%v)", mid, ok)
	}
	if !c.Animating(clock.Now()) {
		t.Error("expected animation mid-transition")
	}

	clock.Advance(100 * time.Millisecond)
	full, ok := b.StrokeAt(clock.Now())
	if !ok || full.Width != 7 || full.Color.A != 0xff || full.Color.R != 0 {
		t.Errorf("expected 7px black stroke, got %+v (%v)", full, ok)
	}

	c.Dispatch(Event{Kind: PointerLeave, PointID: 2})
	clock.Advance(200 * time.Millisecond)
	if c.Tick(clock.Now()) {
		t.Error("transitions should have finished")
	}
	if *b != before {
		t.Errorf("hover cycle should restore the bubble:\nbefore %+v\nafter  %+v", before, *b)
	}
	if s := c.State(); s.Kind != Idle {
		t.Errorf("expected idle, got %s", s)
	}
}

func TestDispatch_TransitionContinuesFromCurrentValue(t *testing.T) {
	c, _, clock := newController(t, refugees())
	b, _ := c.Bubble(1)

	c.Dispatch(Event{Kind: PointerEnter, PointID: 1})
	clock.Advance(60 * time.Millisecond)
	mid, _ := b.StrokeAt(clock.Now())

	c.Dispatch(Event{Kind: PointerLeave, PointID: 1})
	now, _ := b.StrokeAt(clock.Now())
	if math.Abs(now.Width-mid.Width) > 1e-9 {
		t.Errorf("leave should start from %g, got %g", mid.Width, now.Width)
	}

	clock.Advance(100 * time.Millisecond)
	if _, ok := b.StrokeAt(clock.Now()); ok {
		t.Error("stroke should be gone after the leave transition")
	}
}

func TestDispatch_EnterMovesHover(t *testing.T) {
	c, _, clock := newController(t, refugees())

	c.Dispatch(Event{Kind: PointerEnter, PointID: 1})
	clock.Advance(time.Second)
	c.Dispatch(Event{Kind: PointerEnter, PointID: 2})
	clock.Advance(time.Second)

	a, _ := c.Bubble(1)
	if _, ok := a.StrokeAt(clock.Now()); ok {
		t.Error("previous hover should lose its stroke")
	}
	if id, ok := c.Hovered(); !ok || id != 2 {
		t.Errorf("expected hover on 2, got %d (%v)", id, ok)
	}
}

func TestDispatch_ClickReplacesPopup(t *testing.T) {
	c, surface, _ := newController(t, refugees())

	c.Dispatch(Event{Kind: Click, PointID: 1})
	c.Dispatch(Event{Kind: Click, PointID: 2})

	p := surface.Scene().Popup
	if p == nil {
		t.Fatal("expected a popup")
	}
	if p.ID != 2 || p.Point.Name != "Angola" {
		t.Errorf("expected popup for Angola, got %+v", p)
	}
	if p.X != 0 || p.Y != 30 {
		t.Errorf("expected popup at (0,30), got (%g,%g)", p.X, p.Y)
	}
	if s := c.State(); s.Kind != Selected || s.PointID != 2 {
		t.Errorf("expected selected(2), got %s", s)
	}

	c.Dispatch(Event{Kind: Click, PointID: 1})
	want := "Country: Afghanistan\nNumber of refugees: 2,681,269"
	if got := surface.Scene().Popup.Text(); got != want {
		t.Errorf("popup text = %q, want %q", got, want)
	}
}

func TestDispatch_ClickSamePointKeepsOnePopup(t *testing.T) {
	c, _, _ := newController(t, refugees())
	c.Dispatch(Event{Kind: Click, PointID: 3})
	first := c.Scene().Popup
	c.Dispatch(Event{Kind: Click, PointID: 3})
	if c.Scene().Popup == first {
		t.Error("click should rebuild the popup")
	}
	if !strings.HasPrefix(c.Scene().Popup.Text(), "Country: Albania") {
		t.Errorf("unexpected popup %q", c.Scene().Popup.Text())
	}
}

func TestDispatch_UnknownPointIgnored(t *testing.T) {
	c, surface, _ := newController(t, refugees())

	for _, id := range []model.PointID{-1, 4, 1000} {
		if c.Dispatch(Event{Kind: Click, PointID: id}) {
			t.Errorf("event for %d should be ignored", id)
		}
	}
	if surface.Scene().Popup != nil {
		t.Error("ignored events must not create a popup")
	}

	reg := NewRegistry()
	reg.Register("chart", &MemorySurface{})
	undrawn, err := New(refugees(), reg, "chart")
	if err != nil {
		t.Fatal(err)
	}
	if undrawn.Dispatch(Event{Kind: PointerEnter, PointID: 0}) {
		t.Error("events before Draw should be ignored")
	}
}

func TestState_HoverTakesPrecedence(t *testing.T) {
	c, _, _ := newController(t, refugees())

	c.Dispatch(Event{Kind: Click, PointID: 1})
	c.Dispatch(Event{Kind: PointerEnter, PointID: 2})
	if s := c.State(); s.Kind != Hovering || s.PointID != 2 {
		t.Errorf("expected hovering(2), got %s", s)
	}
	c.Dispatch(Event{Kind: PointerLeave, PointID: 2})
	if s := c.State(); s.Kind != Selected || s.PointID != 1 {
		t.Errorf("expected selected(1), got %s", s)
	}
	if id, ok := c.Selected(); !ok || id != 1 {
		t.Errorf("expected selection 1, got %d (%v)", id, ok)
	}
}

func TestGesture_OnlyTransformChanges(t *testing.T) {
	c, _, _ := newController(t, refugees())
	before := append([]Bubble(nil), c.Scene().Bubbles...)

	c.Gesture(zoom.GestureEvent{Kind: zoom.DragStart, Pos: r2.Vec{X: 100, Y: 100}})
	c.Gesture(zoom.GestureEvent{Kind: zoom.DragMove, Pos: r2.Vec{X: 130, Y: 90}})
	tr := c.Gesture(zoom.GestureEvent{Kind: zoom.Wheel, Pos: r2.Vec{X: 350, Y: 350}, DeltaY: -500})

	if c.Scene().Transform != tr || tr.IsIdentity() {
		t.Fatalf("scene transform %s should follow gesture %s", c.Scene().Transform, tr)
	}
	for i, b := range c.Scene().Bubbles {
		if b != before[i] {
			t.Errorf("bubble %d changed under a gesture", i)
		}
	}
}

func TestHitTest(t *testing.T) {
	circles := fixedLayout{
		{Center: r2.Vec{X: 100, Y: 100}, R: 50},
		{Center: r2.Vec{X: 120, Y: 100}, R: 20},
		{Center: r2.Vec{X: 400, Y: 400}, R: 0},
	}
	points := []model.DataPoint{{Name: "A", Value: 10}, {Name: "B", Value: 2}, {Name: "C", Value: 0}}
	c, _, _ := newController(t, points, WithLayout(circles))

	tests := []struct {
		x, y float64
		id   model.PointID
		hit  bool
	}{
		{61, 101, 0, true},   // inside A only (offset by inset/2)
		{121, 101, 1, true},  // B drawn above A
		{401, 401, 0, false}, // zero-radius C is not hittable
		{600, 600, 0, false},
	}
	for _, tt := range tests {
		id, hit := c.HitTest(tt.x, tt.y)
		if hit != tt.hit || (hit && id != tt.id) {
			t.Errorf("HitTest(%g,%g) = %d,%v want %d,%v", tt.x, tt.y, id, hit, tt.id, tt.hit)
		}
	}

	// After zooming 2x around the origin A's centre moves to (202,202).
	c.Gesture(zoom.GestureEvent{Kind: zoom.Wheel, Pos: r2.Vec{}, DeltaY: -500})
	if id, hit := c.HitTest(202-60, 202); !hit || id != 0 {
		t.Errorf("expected A under zoomed pointer, got %d,%v", id, hit)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Chart.CanvasSize = 400
	cfg.Zoom.MaxScale = 8
	cfg.Zoom.TranslateExtent = []float64{0, 0, 400, 400}
	cfg.Labels.Name = "Region"

	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("OptionsFromConfig failed: %v", err)
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.CanvasSize != 400 || o.ZoomBounds.MaxScale != 8 || o.ZoomBounds.Translate == nil {
		t.Errorf("config not applied: %+v", o)
	}
	if o.Highlight.Width != 7 || o.Highlight.Duration != 100*time.Millisecond {
		t.Errorf("unexpected highlight %+v", o.Highlight)
	}
	if o.NameLabel != "Region" {
		t.Errorf("expected name label Region, got %q", o.NameLabel)
	}
	if len(o.Palette) != 7 || scale.Hex(o.Palette[6]) != "#99000d" {
		t.Errorf("unexpected palette %v", o.Palette)
	}

	cfg.Chart.Palette[0] = "not-a-colour"
	if _, err := OptionsFromConfig(cfg); err == nil {
		t.Error("expected error for bad palette entry")
	}
}

func TestTransition(t *testing.T) {
	start := time.Unix(0, 0)
	tr := Transition{From: 0, To: 10, Start: start, Duration: 100 * time.Millisecond}

	if v := tr.Value(start); v != 0 {
		t.Errorf("value at start = %g", v)
	}
	if v := tr.Value(start.Add(50 * time.Millisecond)); math.Abs(v-5) > 1e-9 {
		t.Errorf("cubic in-out is symmetric, midpoint = %g", v)
	}
	if v := tr.Value(start.Add(time.Second)); v != 10 {
		t.Errorf("value after end = %g", v)
	}
	if tr.Running(start.Add(100 * time.Millisecond)) {
		t.Error("transition should end at start+duration")
	}
	if v := (Transition{To: 3}).Value(start); v != 3 {
		t.Errorf("zero-duration transition should jump, got %g", v)
	}
}
