package plot

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"

	"taxi-dashboard/dashboard"
	"taxi-dashboard/dataset"
)

func snapshot(t *testing.T, sel dashboard.Selection) dashboard.Snapshot {
	t.Helper()
	ds, _, err := dataset.Bundled()
	require.NoError(t, err)
	return dashboard.Compute(dashboard.NewScanner(ds), sel)
}

var full = dashboard.Selection{DistanceMin: 0, DistanceMax: 17, Payment: dashboard.AllPayments}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("PNG")
	require.NoError(t, err)
	assert.Equal(t, PNG, f)
	assert.Equal(t, "image/png", f.ContentType())

	f, err = ParseFormat("svg")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	_, err = ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCorrelation_PNG(t *testing.T) {
	r := NewRenderer(Size{Width: 800, Height: 480})
	var buf bytes.Buffer
	require.NoError(t, r.Correlation(&buf, snapshot(t, full).Correlation, PNG))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())
}

func TestCorrelation_SVG(t *testing.T) {
	r := NewRenderer(Size{Width: 800, Height: 480})
	var buf bytes.Buffer
	require.NoError(t, r.Correlation(&buf, snapshot(t, full).Correlation, SVG))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "<svg"))
}

func TestCorrelation_DegenerateInputs(t *testing.T) {
	r := NewRenderer(Size{Width: 640, Height: 400})
	cases := map[string]dashboard.CorrelationPlot{
		"empty":        dashboard.RenderCorrelation(nil, dashboard.AllPayments),
		"single point": snapshot(t, dashboard.Selection{DistanceMin: 0, DistanceMax: 0.38, Payment: dashboard.AllPayments}).Correlation,
		"one method":   snapshot(t, dashboard.Selection{DistanceMin: 0, DistanceMax: 17, Payment: "cash"}).Correlation,
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.NoError(t, r.Correlation(&buf, p, PNG))
			assert.NotZero(t, buf.Len())
		})
	}
}

func TestComparison(t *testing.T) {
	r := NewRenderer(Size{Width: 640, Height: 400})

	var buf bytes.Buffer
	require.NoError(t, r.Comparison(&buf, snapshot(t, full).Comparison, PNG))
	_, err := png.Decode(&buf)
	assert.NoError(t, err)

	buf.Reset()
	single := snapshot(t, dashboard.Selection{DistanceMin: 0, DistanceMax: 17, Payment: "credit card"}).Comparison
	require.Len(t, single.Bars, 1)
	assert.NoError(t, r.Comparison(&buf, single, SVG))

	buf.Reset()
	assert.NoError(t, r.Comparison(&buf, dashboard.RenderPaymentComparison(nil), PNG))
	assert.NotZero(t, buf.Len())
}

func TestPaddedRange(t *testing.T) {
	rng := paddedRange(2, 2)
	assert.Less(t, rng.Min, 2.0)
	assert.Greater(t, rng.Max, 2.0)

	rng = paddedRange(0, 10)
	assert.InDelta(t, -0.5, rng.Min, 1e-9)
	assert.InDelta(t, 10.5, rng.Max, 1e-9)
}

func TestComparison_SVGCarriesValueLabels(t *testing.T) {
	r := NewRenderer(Size{Width: 640, Height: 400})
	cmp := snapshot(t, full).Comparison
	require.Len(t, cmp.Bars, 2)

	var buf bytes.Buffer
	require.NoError(t, r.Comparison(&buf, cmp, SVG))
	svg := buf.String()
	for _, b := range cmp.Bars {
		assert.Contains(t, svg, b.Text)
		assert.Contains(t, svg, ">"+b.Label+"<")
	}
	assert.Contains(t, svg, dashboard.ComparisonXLabel)
}

func TestBarTop(t *testing.T) {
	canvas := chart.Box{Top: 0, Left: 100, Right: 300, Bottom: 200}
	xr := &chart.ContinuousRange{Min: -0.5, Max: 1.5}
	yr := &chart.ContinuousRange{Min: 0, Max: 20}

	x, y := barTop(0, 10, xr, yr, canvas)
	assert.Equal(t, 150, x)
	assert.Equal(t, 100, y)

	x, y = barTop(1, 20, xr, yr, canvas)
	assert.Equal(t, 250, x)
	assert.Equal(t, 0, y)
}

func TestAnnotate_StacksLines(t *testing.T) {
	xr := &chart.ContinuousRange{Min: 0, Max: 10}
	yr := &chart.ContinuousRange{Min: 0, Max: 100}

	ann := annotate(xr, yr, "y = 2.50x + 4.10\nR² = 0.91")
	require.Len(t, ann.Annotations, 2)
	assert.Equal(t, "y = 2.50x + 4.10", ann.Annotations[0].Label)
	assert.Equal(t, "R² = 0.91", ann.Annotations[1].Label)
	assert.Equal(t, ann.Annotations[0].XValue, ann.Annotations[1].XValue)
	assert.Greater(t, ann.Annotations[0].YValue, ann.Annotations[1].YValue)

	assert.Len(t, annotate(xr, yr, NoData).Annotations, 1)
}
