// Package export renders chart scenes to static SVG and PNG files.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/bubbles/pkg/chart"
	"github.com/vanderheijden86/bubbles/pkg/debug"
	"github.com/vanderheijden86/bubbles/pkg/metrics"
)

// ChartOptions controls chart export behaviour.
type ChartOptions struct {
	Path   string       // Output path; format inferred from extension when Format empty
	Format string       // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Scene  *chart.Scene // Scene to render, usually Controller.Scene()
	Now    time.Time    // Instant at which running transitions are sampled; zero = time.Now()
}

// svgUnit is the number of SVG user units per canvas unit. svgo only takes
// integer coordinates, so the document is drawn at this resolution and
// scaled back with a viewBox.
const svgUnit = 100

const (
	legendSwatch = 19.0
	legendLabelX = -24.0
)

var (
	colorBackdrop = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorText     = color.RGBA{0x00, 0x00, 0x00, 0xff}
)

// SaveChart renders a scene as SVG or PNG. Bubbles are painted first, then
// the legend, then the popup, all under the scene's viewport transform.
func SaveChart(opts ChartOptions) error {
	if opts.Scene == nil {
		return fmt.Errorf("no scene to export")
	}

	format, path, err := resolveFormat(opts.Format, opts.Path)
	if err != nil {
		return err
	}
	opts.Path = path
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	debug.Log("export: writing %s (%d bubbles) to %s", format, len(opts.Scene.Bubbles), opts.Path)
	switch format {
	case "svg":
		return renderSVG(opts)
	case "png":
		return renderPNG(opts)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

func resolveFormat(format, path string) (string, string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if path != "" && filepath.Ext(path) == "" {
				path = path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return "", "", fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if path == "" {
		return "", "", fmt.Errorf("output path is required")
	}
	return format, path, nil
}

// --- PNG -------------------------------------------------------------------

func renderPNG(opts ChartOptions) error {
	defer metrics.Timer(metrics.PNGRender)()

	dc := drawPNG(opts.Scene, opts.Now)
	return dc.SavePNG(opts.Path)
}

func drawPNG(scene *chart.Scene, now time.Time) *gg.Context {
	w := int(math.Ceil(scene.Width))
	h := int(math.Ceil(scene.Height))
	dc := gg.NewContext(w, h)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	t := scene.Transform
	dc.Push()
	dc.Translate(t.X, t.Y)
	dc.Scale(t.K, t.K)

	for i := range scene.Bubbles {
		drawBubble(dc, &scene.Bubbles[i], now)
	}
	drawLegend(dc, scene.Legend)
	if scene.Popup != nil {
		drawPopup(dc, scene.Popup)
	}

	dc.Pop()
	return dc
}

func drawBubble(dc *gg.Context, b *chart.Bubble, now time.Time) {
	if b.R <= 0 {
		return
	}
	dc.DrawCircle(b.X, b.Y, b.R)
	dc.SetColor(b.Fill)
	if s, ok := b.StrokeAt(now); ok {
		dc.FillPreserve()
		dc.SetColor(s.Color)
		dc.SetLineWidth(s.Width)
		dc.Stroke()
		return
	}
	dc.Fill()
}

func drawLegend(dc *gg.Context, l chart.Legend) {
	for _, e := range l.Entries {
		dc.SetColor(e.Color)
		dc.DrawRectangle(l.X-legendSwatch, e.Y, legendSwatch, legendSwatch)
		dc.Fill()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(e.Label, l.X+legendLabelX, e.Y+legendSwatch/2, 1, 0.5)
	}
}

func drawPopup(dc *gg.Context, p *chart.Popup) {
	dc.SetColor(colorText)
	for _, line := range p.Lines {
		dc.DrawString(line.Text, p.X, p.Y+line.DY)
	}
}

// --- SVG -------------------------------------------------------------------

func renderSVG(opts ChartOptions) error {
	defer metrics.Timer(metrics.SVGRender)()

	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, opts.Scene, opts.Now)
}

func renderSVGToWriter(w io.Writer, scene *chart.Scene, now time.Time) error {
	width := int(math.Ceil(scene.Width))
	height := int(math.Ceil(scene.Height))

	canvas := svg.New(w)
	canvas.Startview(width, height, 0, 0, width*svgUnit, height*svgUnit)
	canvas.Rect(0, 0, width*svgUnit, height*svgUnit, fmt.Sprintf("fill:%s", css(colorBackdrop)))

	t := scene.Transform
	canvas.Gtransform(fmt.Sprintf("translate(%g,%g) scale(%g)", t.X*svgUnit, t.Y*svgUnit, t.K))

	canvas.Gid("bubbles")
	for i := range scene.Bubbles {
		drawBubbleSVG(canvas, &scene.Bubbles[i], now)
	}
	canvas.Gend()

	drawLegendSVG(canvas, scene.Legend)
	if scene.Popup != nil {
		drawPopupSVG(canvas, scene.Popup)
	}

	canvas.Gend()
	canvas.End()
	return nil
}

func drawBubbleSVG(canvas *svg.SVG, b *chart.Bubble, now time.Time) {
	style := fmt.Sprintf("fill:%s", css(b.Fill))
	if s, ok := b.StrokeAt(now); ok {
		style += fmt.Sprintf(";stroke:%s;stroke-width:%d", css(s.Color), units(s.Width))
	}
	canvas.Circle(units(b.X), units(b.Y), units(b.R), style)
}

func drawLegendSVG(canvas *svg.SVG, l chart.Legend) {
	canvas.Group(`id="legend"`, fmt.Sprintf(`style="font-size:%dpx;text-anchor:end;font-family:sans-serif"`, units(l.FontSize)))
	for _, e := range l.Entries {
		canvas.Rect(units(l.X-legendSwatch), units(e.Y), units(legendSwatch), units(legendSwatch),
			fmt.Sprintf("fill:%s", css(e.Color)))
		canvas.Text(units(l.X+legendLabelX), units(e.Y+legendSwatch/2+0.35*l.FontSize), e.Label,
			fmt.Sprintf("fill:%s", css(colorText)))
	}
	canvas.Gend()
}

func drawPopupSVG(canvas *svg.SVG, p *chart.Popup) {
	canvas.Group(`id="popup"`, fmt.Sprintf(`style="font-size:%dpx;text-anchor:start;font-family:sans-serif"`, units(p.FontSize)))
	for _, line := range p.Lines {
		style := fmt.Sprintf("fill:%s", css(colorText))
		if line.Bold {
			style += ";font-weight:bold"
		}
		canvas.Text(units(p.X), units(p.Y+line.DY), line.Text, style)
	}
	canvas.Gend()
}

// --- helpers ---------------------------------------------------------------

func units(v float64) int {
	return int(math.Round(v * svgUnit))
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
