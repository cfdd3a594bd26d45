package dashboard

import (
	"taxi-dashboard/dataset"
	"taxi-dashboard/models"
)

// Filterer produces the filtered table for a selection. Implementations must
// return the rows of Filter in the same order.
type Filterer interface {
	Filter(sel Selection) []models.Trip
}

// Filter returns, in load order, the trips whose distance lies in the closed
// range of sel and whose payment matches it. The result may be empty.
func Filter(ds *dataset.Dataset, sel Selection) []models.Trip {
	out := []models.Trip{}
	ds.Each(func(_ int, t models.Trip) bool {
		if sel.Matches(t.Distance, t.Payment) {
			out = append(out, t)
		}
		return true
	})
	return out
}

// Scanner is the linear-scan Filterer.
type Scanner struct {
	ds *dataset.Dataset
}

func NewScanner(ds *dataset.Dataset) *Scanner {
	return &Scanner{ds: ds}
}

func (s *Scanner) Filter(sel Selection) []models.Trip {
	return Filter(s.ds, sel)
}
