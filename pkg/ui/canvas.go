package ui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/vanderheijden86/bubbles/pkg/chart"
)

// cellAspect is the height of a terminal cell relative to its width.
const cellAspect = 2.0

// viewport maps terminal cells to chart screen coordinates. The whole
// canvas fits the cell area; cells keep their aspect ratio.
type viewport struct {
	cols, rows int
	upc, upr   float64 // canvas units per column and per row
}

func newViewport(cols, rows int, width, height float64) viewport {
	cols, rows = max(cols, 1), max(rows, 1)
	upc := math.Max(width/float64(cols), height/(float64(rows)*cellAspect))
	return viewport{cols: cols, rows: rows, upc: upc, upr: upc * cellAspect}
}

// point returns the screen position at the centre of a cell.
func (v viewport) point(col, row int) r2.Vec {
	return r2.Vec{X: (float64(col) + 0.5) * v.upc, Y: (float64(row) + 0.5) * v.upr}
}

// cell returns the cell containing a screen position.
func (v viewport) cell(p r2.Vec) (col, row int) {
	return int(math.Floor(p.X / v.upc)), int(math.Floor(p.Y / v.upr))
}

func (v viewport) contains(col, row int) bool {
	return col >= 0 && row >= 0 && col < v.cols && row < v.rows
}

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellFill
	cellStroke
	cellText
	cellCont // right half of a wide rune
)

type cell struct {
	kind   cellKind
	bubble int
	r      rune
}

// raster is a cell grid holding the painted scene.
type raster struct {
	vp    viewport
	cells []cell
}

func newRaster(vp viewport) *raster {
	return &raster{vp: vp, cells: make([]cell, vp.cols*vp.rows)}
}

func (r *raster) at(col, row int) *cell {
	return &r.cells[row*r.vp.cols+col]
}

// paint rasterizes the scene's bubbles in draw order and overlays the popup.
func (r *raster) paint(scene *chart.Scene, now time.Time) {
	t := scene.Transform
	for i := range scene.Bubbles {
		b := &scene.Bubbles[i]
		if b.R <= 0 {
			continue
		}
		centre := t.Apply(r2.Vec{X: b.X, Y: b.Y})
		radius := b.R * t.K
		stroke := 0.0
		if s, ok := b.StrokeAt(now); ok {
			stroke = s.Width * t.K
		}

		c0, r0 := r.vp.cell(r2.Vec{X: centre.X - radius, Y: centre.Y - radius})
		c1, r1 := r.vp.cell(r2.Vec{X: centre.X + radius, Y: centre.Y + radius})
		hit := false
		for row := max(r0, 0); row <= min(r1, r.vp.rows-1); row++ {
			for col := max(c0, 0); col <= min(c1, r.vp.cols-1); col++ {
				d := r2.Norm(r2.Sub(r.vp.point(col, row), centre))
				if d > radius {
					continue
				}
				hit = true
				kind := cellFill
				if stroke > 0 && d >= radius-math.Max(stroke, r.vp.upc) {
					kind = cellStroke
				}
				*r.at(col, row) = cell{kind: kind, bubble: i}
			}
		}
		// Bubbles smaller than a cell still get the cell under their centre.
		if !hit {
			if col, row := r.vp.cell(centre); r.vp.contains(col, row) {
				kind := cellFill
				if stroke > 0 {
					kind = cellStroke
				}
				*r.at(col, row) = cell{kind: kind, bubble: i}
			}
		}
	}

	if p := scene.Popup; p != nil {
		origin := t.Apply(r2.Vec{X: p.X, Y: p.Y})
		col, row := r.vp.cell(origin)
		col, row = max(col, 0), max(row, 0)
		for i, line := range p.Lines {
			r.text(col, row+i, line.Text)
		}
	}
}

// text writes s starting at a cell, clipped to the grid. Wide runes take two
// cells.
func (r *raster) text(col, row int, s string) {
	if row >= r.vp.rows {
		return
	}
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if col+w > r.vp.cols {
			return
		}
		bubble := -1
		if prev := r.at(col, row); prev.kind == cellFill || prev.kind == cellStroke || prev.kind == cellText {
			bubble = prev.bubble
		}
		*r.at(col, row) = cell{kind: cellText, bubble: bubble, r: ch}
		for k := 1; k < w; k++ {
			*r.at(col+k, row) = cell{kind: cellCont}
		}
		col += w
	}
}

// asciiGlyphs shade buckets from lightest to darkest when colour is not
// available.
var asciiGlyphs = []rune(".:-=+*#%@")

// render turns the grid into lines. Colour terminals get filled backgrounds;
// others get one glyph per bucket.
func (r *raster) render(scene *chart.Scene, profile colorprofile.Profile, popup lipgloss.Style) string {
	colour := profile >= colorprofile.ANSI
	lines := make([]string, r.vp.rows)

	for row := 0; row < r.vp.rows; row++ {
		var sb strings.Builder
		var run strings.Builder
		var runStyle lipgloss.Style
		runKey := ""

		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runKey == "" {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(runStyle.Render(run.String()))
			}
			run.Reset()
		}

		for col := 0; col < r.vp.cols; col++ {
			c := *r.at(col, row)
			if c.kind == cellCont {
				continue
			}
			ch, style, key := r.cellStyle(c, scene, colour, popup)
			if key != runKey {
				flush()
				runKey, runStyle = key, style
			}
			run.WriteRune(ch)
		}
		flush()
		lines[row] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func (r *raster) cellStyle(c cell, scene *chart.Scene, colour bool, popup lipgloss.Style) (rune, lipgloss.Style, string) {
	var b *chart.Bubble
	if c.kind != cellEmpty && c.bubble >= 0 {
		b = &scene.Bubbles[c.bubble]
	}

	switch c.kind {
	case cellEmpty:
		return ' ', lipgloss.Style{}, ""
	case cellText:
		if !colour || b == nil {
			return c.r, popup, "text"
		}
		fg := hex(contrastText(b.Fill))
		return c.r, popup.Foreground(lipgloss.Color(fg)).Background(lipgloss.Color(hex(b.Fill))), "text" + fg + hex(b.Fill)
	case cellStroke:
		if !colour {
			return 'O', lipgloss.Style{}, ""
		}
		return ' ', lipgloss.NewStyle().Background(lipgloss.Color("#000000")), "stroke"
	}

	if !colour {
		g := asciiGlyphs[min(b.Bucket, len(asciiGlyphs)-1)]
		return g, lipgloss.Style{}, ""
	}
	h := hex(b.Fill)
	return ' ', lipgloss.NewStyle().Background(lipgloss.Color(h)), "fill" + h
}
