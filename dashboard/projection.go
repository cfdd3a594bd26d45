package dashboard

import (
	"time"

	"taxi-dashboard/models"
)

// Columns are the table columns, in display order.
var Columns = []string{"pickup", "dropoff", "distance", "fare", "tip", "total", "payment"}

type Row struct {
	Pickup   time.Time `json:"pickup"`
	Dropoff  time.Time `json:"dropoff"`
	Distance float64   `json:"distance"`
	Fare     float64   `json:"fare"`
	Tip      float64   `json:"tip"`
	Total    float64   `json:"total"`
	Payment  string    `json:"payment"`
}

func Project(table []models.Trip) []Row {
	rows := make([]Row, len(table))
	for i, t := range table {
		rows[i] = Row{
			Pickup:   t.Pickup,
			Dropoff:  t.Dropoff,
			Distance: t.Distance,
			Fare:     t.Fare,
			Tip:      t.Tip,
			Total:    t.Total,
			Payment:  t.Payment,
		}
	}
	return rows
}
