package plot

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"taxi-dashboard/dashboard"
)

// NoData is drawn on a plot whose filtered table is empty.
const NoData = "no trips match the current filters"

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

var ErrUnsupportedFormat = errors.New("unsupported plot format")

// ParseFormat accepts "png" and "svg".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case PNG, SVG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Size is the output size in pixels.
type Size struct {
	Width  int
	Height int
}

type Renderer struct {
	size Size
}

func NewRenderer(size Size) *Renderer {
	return &Renderer{size: size}
}

// parseColor turns "#1f77b4" or a few plain names into a drawing color.
func parseColor(c string, alpha float64) drawing.Color {
	var col drawing.Color
	switch c {
	case "red":
		col = drawing.ColorRed
	case "black":
		col = drawing.ColorBlack
	case "white":
		col = drawing.ColorWhite
	default:
		col = drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
	}
	return col.WithAlpha(uint8(math.Round(alpha * 255)))
}

func gridStyle() chart.Style {
	return chart.Style{
		StrokeColor: parseColor("black", dashboard.GridOpacity),
		StrokeWidth: 1,
	}
}

// paddedRange widens [lo, hi] by 5% on each side and never returns a zero span.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(hi), 1)
	}
	pad := span * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func bounds(series []dashboard.ScatterSeries) (xlo, xhi, ylo, yhi float64) {
	xlo, ylo = math.Inf(1), math.Inf(1)
	xhi, yhi = math.Inf(-1), math.Inf(-1)
	for _, s := range series {
		for i := range s.X {
			xlo, xhi = math.Min(xlo, s.X[i]), math.Max(xhi, s.X[i])
			ylo, yhi = math.Min(ylo, s.Y[i]), math.Max(yhi, s.Y[i])
		}
	}
	return
}

func (r *Renderer) base(title, xLabel, yLabel string, xr, yr *chart.ContinuousRange) chart.Chart {
	return chart.Chart{
		Title:      title,
		Width:      r.size.Width,
		Height:     r.size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: xLabel, Range: xr, GridMajorStyle: gridStyle()},
		YAxis:      chart.YAxis{Name: yLabel, Range: yr, GridMajorStyle: gridStyle()},
	}
}

// Correlation draws the scatter, trend line and fit annotation.
func (r *Renderer) Correlation(w io.Writer, p dashboard.CorrelationPlot, format Format) error {
	xlo, xhi, ylo, yhi := bounds(p.Series)
	xr, yr := paddedRange(xlo, xhi), paddedRange(ylo, yhi)
	ch := r.base(p.Title, p.XLabel, p.YLabel, xr, yr)

	for _, s := range p.Series {
		if len(s.X) == 0 {
			continue
		}
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name: s.Name,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    parseColor(s.Color, p.Opacity),
			},
			XValues: s.X,
			YValues: s.Y,
		})
	}

	if t := p.Trend; t != nil {
		st := chart.Style{
			StrokeColor: parseColor(t.Color, 1),
			StrokeWidth: 2,
		}
		if t.Dash {
			st.StrokeDashArray = []float64{6, 4}
		}
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name:    "trend",
			Style:   st,
			XValues: []float64{t.X0, t.X1},
			YValues: []float64{t.Y0, t.Y1},
		})
	}

	label := p.Annotation
	if p.Empty {
		label = NoData
	}
	ch.Series = append(ch.Series, annotate(xr, yr, label))

	if len(p.Series) > 0 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(format.provider(), w)
}

// annotate stacks the lines of label in the top-left corner of the plot.
func annotate(xr, yr *chart.ContinuousRange, label string) chart.AnnotationSeries {
	lines := strings.Split(label, "\n")
	ann := chart.AnnotationSeries{Annotations: make([]chart.Value2, len(lines))}
	for i, line := range lines {
		ann.Annotations[i] = chart.Value2{
			XValue: xr.Min + (xr.Max-xr.Min)*0.05,
			YValue: yr.Max - (yr.Max-yr.Min)*(0.05+lineStep*float64(i)),
			Label:  line,
		}
	}
	return ann
}

// lineStep is the vertical gap between stacked annotation lines, as a
// fraction of the y range.
const lineStep = 0.09

// barHalfWidth is half a bar's width in category units.
const barHalfWidth = 0.3

// Comparison draws one bar per payment group with its value centered above
// it. Bars are filled series on a category axis so the value labels can be
// placed with the same linear ranges the bars use.
func (r *Renderer) Comparison(w io.Writer, p dashboard.ComparisonPlot, format Format) error {
	if len(p.Bars) == 0 {
		xr, yr := &chart.ContinuousRange{Min: 0, Max: 1}, &chart.ContinuousRange{Min: 0, Max: 1}
		ch := r.base(p.Title, p.XLabel, p.YLabel, xr, yr)
		ch.Series = []chart.Series{annotate(xr, yr, NoData)}
		return ch.Render(format.provider(), w)
	}

	top := 0.0
	for _, b := range p.Bars {
		top = math.Max(top, b.Value)
	}
	if top <= 0 {
		top = 1
	}
	xr := &chart.ContinuousRange{Min: -0.5, Max: float64(len(p.Bars)) - 0.5}
	yr := &chart.ContinuousRange{Min: 0, Max: top * 1.15}
	ch := r.base(p.Title, p.XLabel, p.YLabel, xr, yr)
	ch.XAxis.GridMajorStyle = chart.Style{}

	ticks := make([]chart.Tick, len(p.Bars))
	for i, b := range p.Bars {
		x := float64(i)
		ticks[i] = chart.Tick{Value: x, Label: b.Label}
		color := parseColor(b.Color, 1)
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name: b.Label,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 1,
				FillColor:   color,
			},
			XValues: []float64{x - barHalfWidth, x - barHalfWidth, x + barHalfWidth, x + barHalfWidth},
			YValues: []float64{0, b.Value, b.Value, 0},
		})
	}
	ch.XAxis.Ticks = ticks
	ch.Elements = []chart.Renderable{barLabels(p.Bars, xr, yr)}
	return ch.Render(format.provider(), w)
}

// barLabels draws each bar's text centered just above the bar.
func barLabels(bars []dashboard.Bar, xr, yr *chart.ContinuousRange) chart.Renderable {
	return func(rd chart.Renderer, canvas chart.Box, defaults chart.Style) {
		font := defaults.GetFont()
		if font == nil {
			font, _ = chart.GetDefaultFont()
		}
		rd.SetFont(font)
		rd.SetFontColor(drawing.ColorBlack)
		rd.SetFontSize(11)
		for i, b := range bars {
			x, y := barTop(i, b.Value, xr, yr, canvas)
			tb := rd.MeasureText(b.Text)
			rd.Text(b.Text, x-tb.Width()/2, y-6)
		}
	}
}

// barTop maps the top center of bar i to canvas pixels.
func barTop(i int, value float64, xr, yr *chart.ContinuousRange, canvas chart.Box) (int, int) {
	x := canvas.Left + int(math.Round((float64(i)-xr.Min)/(xr.Max-xr.Min)*float64(canvas.Width())))
	y := canvas.Bottom - int(math.Round((value-yr.Min)/(yr.Max-yr.Min)*float64(canvas.Height())))
	return x, y
}
