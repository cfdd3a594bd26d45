package dashboard

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"taxi-dashboard/models"
)

const (
	CorrelationTitle  = "Distance vs Total Fare"
	CorrelationXLabel = "Distance (miles)"
	CorrelationYLabel = "Total ($)"

	PointOpacity = 0.7
	GridOpacity  = 0.3
	TrendColor   = "red"

	InsufficientData = "insufficient data for trend line"
)

// Regression is an ordinary least-squares fit of total on distance.
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R         float64 `json:"r"`
	RSquared  float64 `json:"r_squared"`
}

// Equation renders the fitted line as "y = 2.50x + 4.10".
func (r Regression) Equation() string {
	return fmt.Sprintf("y = %.2fx + %.2f", r.Slope, r.Intercept)
}

func (r Regression) Annotation() string {
	return fmt.Sprintf("%s\nR² = %.2f", r.Equation(), r.RSquared)
}

// Fit regresses ys on xs. It reports false when the fit is undefined: fewer
// than two points or no variance in xs. A constant ys yields r = 0.
func Fit(xs, ys []float64) (Regression, bool) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return Regression{}, false
	}
	if floats.Min(xs) == floats.Max(xs) {
		return Regression{}, false
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		r = 0
	}
	return Regression{Slope: slope, Intercept: intercept, R: r, RSquared: r * r}, true
}

// ScatterSeries is one colored group of points.
type ScatterSeries struct {
	Name  string    `json:"name"`
	Color string    `json:"color"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
}

// TrendLine spans the observed distance range.
type TrendLine struct {
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	Color string  `json:"color"`
	Dash  bool    `json:"dash"`
}

type CorrelationPlot struct {
	Title      string          `json:"title"`
	XLabel     string          `json:"x_label"`
	YLabel     string          `json:"y_label"`
	Opacity    float64         `json:"opacity"`
	Series     []ScatterSeries `json:"series"`
	Regression *Regression     `json:"regression,omitempty"`
	Trend      *TrendLine      `json:"trend,omitempty"`
	Annotation string          `json:"annotation"`
	Empty      bool            `json:"empty"`
}

// RenderCorrelation builds the distance/total scatter. With payment "All"
// points are colored per method, otherwise every point takes the color of
// the selected method.
func RenderCorrelation(table []models.Trip, payment string) CorrelationPlot {
	plot := CorrelationPlot{
		Title:   CorrelationTitle,
		XLabel:  CorrelationXLabel,
		YLabel:  CorrelationYLabel,
		Opacity: PointOpacity,
		Series:  []ScatterSeries{},
		Empty:   len(table) == 0,
	}

	xs := make([]float64, len(table))
	ys := make([]float64, len(table))
	for i, t := range table {
		xs[i] = t.Distance
		ys[i] = t.Total
	}

	if payment == AllPayments {
		byMethod := make(map[string]*ScatterSeries)
		var names []string
		for _, t := range table {
			s, ok := byMethod[t.Payment]
			if !ok {
				s = &ScatterSeries{Name: t.Payment, Color: ColorFor(t.Payment)}
				byMethod[t.Payment] = s
				names = append(names, t.Payment)
			}
			s.X = append(s.X, t.Distance)
			s.Y = append(s.Y, t.Total)
		}
		sort.Strings(names)
		for _, n := range names {
			plot.Series = append(plot.Series, *byMethod[n])
		}
	} else if len(table) > 0 {
		plot.Series = append(plot.Series, ScatterSeries{
			Name:  payment,
			Color: selectedColor(payment),
			X:     xs,
			Y:     ys,
		})
	}

	reg, ok := Fit(xs, ys)
	if !ok {
		plot.Annotation = InsufficientData
		return plot
	}
	lo, hi := floats.Min(xs), floats.Max(xs)
	plot.Regression = &reg
	plot.Trend = &TrendLine{
		X0:    lo,
		Y0:    reg.Slope*lo + reg.Intercept,
		X1:    hi,
		Y1:    reg.Slope*hi + reg.Intercept,
		Color: TrendColor,
		Dash:  true,
	}
	plot.Annotation = reg.Annotation()
	return plot
}
