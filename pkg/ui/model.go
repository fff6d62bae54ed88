// Package ui is the terminal front end of the bubble chart: a bubbletea
// program that rasterizes the chart scene into terminal cells and feeds mouse
// and keyboard input back to the chart controller.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/bubbles/pkg/chart"
	"github.com/vanderheijden86/bubbles/pkg/metrics"
	"github.com/vanderheijden86/bubbles/pkg/model"
	"github.com/vanderheijden86/bubbles/pkg/scale"
	"github.com/vanderheijden86/bubbles/pkg/zoom"
)

const (
	headerRows = 1
	footerRows = 2 // status + help
	panelWidth = 30

	// frameInterval paces highlight animation.
	frameInterval = 16 * time.Millisecond
	// panStep is the fraction of the canvas a pan key moves.
	panStep = 0.1
	// zoomWheel is the wheel delta of one zoom key or wheel notch.
	zoomWheel = 250.0
)

// frameMsg drives highlight transitions.
type frameMsg time.Time

// ReadyTimeoutMsg is sent after a short delay to ensure the UI becomes ready
// even if the terminal doesn't send WindowSizeMsg promptly.
type ReadyTimeoutMsg struct{}

// ReadyTimeoutCmd returns a command that sends ReadyTimeoutMsg after 100ms.
func ReadyTimeoutCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return ReadyTimeoutMsg{}
	})
}

// Model is the bubbletea model of the chart view.
type Model struct {
	ctrl  *chart.Controller
	keys  KeyMap
	help  help.Model
	theme Theme

	profile colorprofile.Profile
	now     func() time.Time
	copy    func(string) error

	width, height int
	ready         bool
	animating     bool

	cursor   int // keyboard hover position, -1 when unset
	dragging bool
	pressed  r2.Vec
	moved    bool

	statusMsg     string
	statusIsError bool
}

// NewModel wraps a drawn controller.
func NewModel(ctrl *chart.Controller, keys KeyMap) Model {
	return Model{
		ctrl:    ctrl,
		keys:    keys,
		help:    help.New(),
		theme:   DefaultTheme(),
		profile: TermProfile,
		now:     time.Now,
		copy:    clipboard.WriteAll,
		cursor:  -1,
	}
}

// WithProfile returns a copy of m rendering for the given colour profile.
func (m Model) WithProfile(p colorprofile.Profile) Model {
	m.profile = p
	return m
}

// WithClock returns a copy of m using now for animation frames.
func (m Model) WithClock(now func() time.Time) Model {
	m.now = now
	return m
}

// WithClipboard returns a copy of m that copies text through write.
func (m Model) WithClipboard(write func(string) error) Model {
	m.copy = write
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return ReadyTimeoutCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case ReadyTimeoutMsg:
		if !m.ready {
			m.width, m.height = 100, 30
			m.ready = true
		}
		return m, nil

	case frameMsg:
		if m.ctrl.Tick(time.Time(msg)) {
			return m, m.frameCmd()
		}
		m.animating = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	m.statusIsError = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left):
		m.pan(1, 0)
	case key.Matches(msg, m.keys.Right):
		m.pan(-1, 0)
	case key.Matches(msg, m.keys.Up):
		m.pan(0, 1)
	case key.Matches(msg, m.keys.Down):
		m.pan(0, -1)
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoomAtCentre(-zoomWheel)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoomAtCentre(zoomWheel)
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.Gesture(zoom.GestureEvent{Kind: zoom.Reset})
	case key.Matches(msg, m.keys.Next):
		return m.moveCursor(1)
	case key.Matches(msg, m.keys.Prev):
		return m.moveCursor(-1)
	case key.Matches(msg, m.keys.Select):
		if id, ok := m.ctrl.Hovered(); ok {
			m.ctrl.Dispatch(chart.Event{Kind: chart.Click, PointID: id})
		}
	case key.Matches(msg, m.keys.Copy):
		m.copySelection()
	case key.Matches(msg, m.keys.Redraw):
		if err := m.ctrl.Draw(); err != nil {
			m.statusMsg = fmt.Sprintf("Redraw failed: %v", err)
			m.statusIsError = true
		} else {
			m.cursor = -1
			m.statusMsg = "Redrawn"
		}
	}
	return m, nil
}

func (m *Model) pan(dx, dy float64) {
	scene := m.ctrl.Scene()
	if scene == nil {
		return
	}
	step := r2.Vec{X: dx * panStep * scene.Width, Y: dy * panStep * scene.Height}
	m.ctrl.Gesture(zoom.GestureEvent{Kind: zoom.DragStart})
	m.ctrl.Gesture(zoom.GestureEvent{Kind: zoom.DragMove, Pos: step})
	m.ctrl.Gesture(zoom.GestureEvent{Kind: zoom.DragEnd})
}

func (m *Model) zoomAtCentre(deltaY float64) {
	scene := m.ctrl.Scene()
	if scene == nil {
		return
	}
	centre := r2.Vec{X: scene.Width / 2, Y: scene.Height / 2}
	m.ctrl.Gesture(zoom.GestureEvent{Kind: zoom.Wheel, Pos: centre, DeltaY: deltaY})
}

// moveCursor moves the keyboard hover to the next visible bubble.
func (m Model) moveCursor(step int) (tea.Model, tea.Cmd) {
	scene := m.ctrl.Scene()
	if scene == nil {
		return m, nil
	}
	n := len(scene.Bubbles)
	for tries := 0; tries < n; tries++ {
		m.cursor = ((m.cursor+step)%n + n) % n
		if scene.Bubbles[m.cursor].R > 0 {
			return m, m.hover(model.PointID(m.cursor), true)
		}
	}
	return m, nil
}

// hover moves the highlight to id, or clears it when ok is false.
func (m *Model) hover(id model.PointID, ok bool) tea.Cmd {
	cur, hovering := m.ctrl.Hovered()
	if hovering && (!ok || cur != id) {
		m.ctrl.Dispatch(chart.Event{Kind: chart.PointerLeave, PointID: cur})
	}
	if ok && (!hovering || cur != id) {
		m.ctrl.Dispatch(chart.Event{Kind: chart.PointerEnter, PointID: id})
	}
	return m.animate()
}

// animate starts the frame loop unless it is already running.
func (m *Model) animate() tea.Cmd {
	if m.animating || !m.ctrl.Animating(m.now()) {
		return nil
	}
	m.animating = true
	return m.frameCmd()
}

func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	vp := m.viewport()
	col, row := msg.X, msg.Y-headerRows
	inside := vp.contains(col, row)
	pos := vp.point(col, row)

	switch {
	case msg.Button == tea.MouseButtonWheelUp && inside:
		m.ctrl.Gesture(zoom.GestureEvent{Kind: zoom.Wheel, Pos: pos, DeltaY: -zoomWheel})
		return m, nil
	case msg.Button == tea.MouseButtonWheelDown && inside:
		m.ctrl.Gesture(zoom.GestureEvent{Kind: zoom.Wheel, Pos: pos, DeltaY: zoomWheel})
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return m, nil
		}
		m.dragging, m.moved, m.pressed = true, false, pos
		m.ctrl.Gesture(zoom.GestureEvent{Kind: zoom.DragStart, Pos: pos})
		return m, nil

	case tea.MouseActionMotion:
		if m.dragging {
			if pos != m.pressed {
				m.moved = true
			}
			m.ctrl.Gesture(zoom.GestureEvent{Kind: zoom.DragMove, Pos: pos})
			return m, nil
		}
		id, hit := m.hitTest(inside, pos)
		if hit {
			m.cursor = int(id)
		}
		return m, m.hover(id, hit)

	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		m.ctrl.Gesture(zoom.GestureEvent{Kind: zoom.DragEnd, Pos: pos})
		if !m.moved {
			if id, hit := m.hitTest(inside, pos); hit {
				m.ctrl.Dispatch(chart.Event{Kind: chart.Click, PointID: id})
			}
		}
	}
	return m, nil
}

func (m Model) hitTest(inside bool, pos r2.Vec) (model.PointID, bool) {
	if !inside {
		return 0, false
	}
	return m.ctrl.HitTest(pos.X, pos.Y)
}

func (m *Model) copySelection() {
	scene := m.ctrl.Scene()
	if scene == nil || scene.Popup == nil {
		m.statusMsg = "Nothing selected"
		m.statusIsError = true
		return
	}
	if err := m.copy(scene.Popup.Text()); err != nil {
		m.statusMsg = fmt.Sprintf("Clipboard error: %v", err)
		m.statusIsError = true
		return
	}
	m.statusMsg = fmt.Sprintf("Copied %s to clipboard", scene.Popup.Point.Name)
}

func (m Model) viewport() viewport {
	w, h := 700.0, 700.0
	if scene := m.ctrl.Scene(); scene != nil {
		w, h = scene.Width, scene.Height
	}
	return newViewport(m.width-panelWidth-1, m.height-headerRows-footerRows, w, h)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	defer metrics.Timer(metrics.TUIRender)()

	scene := m.ctrl.Scene()
	if scene == nil {
		return "No chart drawn"
	}

	vp := m.viewport()
	r := newRaster(vp)
	r.paint(scene, m.now())
	canvas := lipgloss.NewStyle().Width(vp.cols).Height(vp.rows).
		Render(r.render(scene, m.profile, m.theme.Popup))

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.renderPanel(scene, vp.rows))

	status := m.theme.Status.Render(m.statusMsg)
	if m.statusIsError {
		status = m.theme.StatusErr.Render(m.statusMsg)
	}

	title := m.theme.Title.Render(truncateRunesHelper(
		fmt.Sprintf("Refugees by country · %d points · %s", len(scene.Bubbles), scene.Transform), m.width, "…"))

	return strings.Join([]string{title, body, status, m.help.View(m.keys)}, "\n")
}

func (m Model) renderPanel(scene *chart.Scene, rows int) string {
	inner := panelWidth - 1
	var lines []string

	lines = append(lines, m.theme.Heading.Render("Legend"))
	for _, e := range scene.Legend.Entries {
		swatch := m.swatch(e)
		lines = append(lines, swatch+" "+padRight(e.Label, inner-3))
	}
	lines = append(lines, "")

	state := m.ctrl.State()
	lines = append(lines, m.theme.Heading.Render("State"), m.theme.Muted.Render(state.String()))

	if id, ok := m.ctrl.Hovered(); ok {
		p := scene.Bubbles[id].Point
		lines = append(lines, "", m.theme.Heading.Render("Hover"),
			truncateRunesHelper(p.Name, inner, "…"),
			m.theme.Muted.Render(model.FormatValue(p.Value)))
	}
	if p := scene.Popup; p != nil {
		lines = append(lines, "", m.theme.Heading.Render("Selected"))
		for _, l := range p.Lines {
			lines = append(lines, truncateRunesHelper(l.Text, inner, "…"))
		}
	}

	if len(lines) > rows {
		lines = lines[:rows]
	}
	return m.theme.Panel.Width(panelWidth).Height(rows).Render(strings.Join(lines, "\n"))
}

func (m Model) swatch(e scale.LegendEntry) string {
	if m.profile < colorprofile.ANSI {
		return strings.Repeat(string(asciiGlyphs[min(e.Bucket, len(asciiGlyphs)-1)]), 2)
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex(e.Color))).Render("  ")
}

// Controller returns the chart controller behind the view.
func (m Model) Controller() *chart.Controller {
	return m.ctrl
}
