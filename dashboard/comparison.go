package dashboard

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"taxi-dashboard/models"
)

const (
	ComparisonTitle  = "Average Total by Payment Method"
	ComparisonXLabel = "Payment Method"
	ComparisonYLabel = "Average Total ($)"
)

// PaymentGroup aggregates the filtered trips of one payment method.
type PaymentGroup struct {
	Payment      string  `json:"payment"`
	Count        int     `json:"count"`
	MeanTotal    float64 `json:"mean_total"`
	MeanTip      float64 `json:"mean_tip"`
	MeanDistance float64 `json:"mean_distance"`
}

type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Text  string  `json:"text"` // drawn centered above the bar
	Color string  `json:"color"`
}

type ComparisonPlot struct {
	Title  string         `json:"title"`
	XLabel string         `json:"x_label"`
	YLabel string         `json:"y_label"`
	Groups []PaymentGroup `json:"groups"`
	Bars   []Bar          `json:"bars"`
}

// GroupByPayment groups the table by payment method, sorted by name. Only
// methods present in table produce a group.
func GroupByPayment(table []models.Trip) []PaymentGroup {
	type cols struct{ total, tip, dist []float64 }
	byMethod := make(map[string]*cols)
	for _, t := range table {
		c, ok := byMethod[t.Payment]
		if !ok {
			c = &cols{}
			byMethod[t.Payment] = c
		}
		c.total = append(c.total, t.Total)
		c.tip = append(c.tip, t.Tip)
		c.dist = append(c.dist, t.Distance)
	}

	groups := make([]PaymentGroup, 0, len(byMethod))
	for name, c := range byMethod {
		groups = append(groups, PaymentGroup{
			Payment:      name,
			Count:        len(c.total),
			MeanTotal:    stat.Mean(c.total, nil),
			MeanTip:      stat.Mean(c.tip, nil),
			MeanDistance: stat.Mean(c.dist, nil),
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Payment < groups[j].Payment })
	return groups
}

// RenderPaymentComparison builds one bar per payment method in the table.
// Bar colors follow group position, not method identity: when a filter
// removes the first group the remaining bar takes the first color.
func RenderPaymentComparison(table []models.Trip) ComparisonPlot {
	groups := GroupByPayment(table)
	plot := ComparisonPlot{
		Title:  ComparisonTitle,
		XLabel: ComparisonXLabel,
		YLabel: ComparisonYLabel,
		Groups: groups,
		Bars:   make([]Bar, len(groups)),
	}
	for i, g := range groups {
		plot.Bars[i] = Bar{
			Label: g.Payment,
			Value: g.MeanTotal,
			Text:  fmt.Sprintf("$%.2f", g.MeanTotal),
			Color: barPalette[i%len(barPalette)],
		}
	}
	return plot
}
