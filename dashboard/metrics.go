package dashboard

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"taxi-dashboard/models"
)

// NotAvailable is displayed in place of an undefined mean.
const NotAvailable = "N/A"

// Mean is an arithmetic mean that is undefined over an empty table.
type Mean struct {
	Value float64
	Valid bool
}

func (m Mean) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Mean) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Mean{}
		return nil
	}
	if err := json.Unmarshal(b, &m.Value); err != nil {
		return err
	}
	m.Valid = true
	return nil
}

func meanOf(xs []float64) Mean {
	if len(xs) == 0 {
		return Mean{}
	}
	return Mean{Value: stat.Mean(xs, nil), Valid: true}
}

// Metrics feeds the three summary cards.
type Metrics struct {
	Count        int  `json:"count"`
	MeanFare     Mean `json:"mean_fare"`
	MeanDistance Mean `json:"mean_distance"`
}

func Summarize(table []models.Trip) Metrics {
	fares := make([]float64, len(table))
	dists := make([]float64, len(table))
	for i, t := range table {
		fares[i] = t.Fare
		dists[i] = t.Distance
	}
	return Metrics{
		Count:        len(table),
		MeanFare:     meanOf(fares),
		MeanDistance: meanOf(dists),
	}
}

// FormatCurrency renders m as "$12.34", or N/A.
func FormatCurrency(m Mean) string {
	if !m.Valid {
		return NotAvailable
	}
	return fmt.Sprintf("$%.2f", m.Value)
}

// FormatMiles renders m as "3.21 miles", or N/A.
func FormatMiles(m Mean) string {
	if !m.Valid {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f miles", m.Value)
}

// Card is one rendered summary card.
type Card struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Class string `json:"class"`
}

// Cards renders the summary the way the dashboard shows it.
func (m Metrics) Cards() []Card {
	return []Card{
		{Title: "Total Rides", Value: fmt.Sprintf("%d", m.Count), Class: "bg-primary"},
		{Title: "Average Fare", Value: FormatCurrency(m.MeanFare), Class: "bg-success"},
		{Title: "Average Distance", Value: FormatMiles(m.MeanDistance), Class: "bg-info"},
	}
}
