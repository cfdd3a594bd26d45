package dataset

import (
	"math"
	"sort"

	"taxi-dashboard/models"
)

// Dataset is the immutable in-memory trip table. It is built once at startup
// and shared read-only by every session.
type Dataset struct {
	trips    []models.Trip
	payments []string
	maxDist  float64
}

// New copies trips into a Dataset. Callers are expected to have dropped
// incomplete rows already.
func New(trips []models.Trip) *Dataset {
	ds := &Dataset{trips: make([]models.Trip, len(trips))}
	copy(ds.trips, trips)

	seen := make(map[string]bool)
	for _, t := range ds.trips {
		if t.Distance > ds.maxDist {
			ds.maxDist = t.Distance
		}
		if !seen[t.Payment] {
			seen[t.Payment] = true
			ds.payments = append(ds.payments, t.Payment)
		}
	}
	sort.Strings(ds.payments)
	return ds
}

func (ds *Dataset) Len() int {
	return len(ds.trips)
}

// At returns the i-th trip in load order.
func (ds *Dataset) At(i int) models.Trip {
	return ds.trips[i]
}

// Trips returns a copy of every trip in load order.
func (ds *Dataset) Trips() []models.Trip {
	out := make([]models.Trip, len(ds.trips))
	copy(out, ds.trips)
	return out
}

// Each calls fn for every trip in load order until fn returns false.
func (ds *Dataset) Each(fn func(i int, t models.Trip) bool) {
	for i, t := range ds.trips {
		if !fn(i, t) {
			return
		}
	}
}

func (ds *Dataset) MaxDistance() float64 {
	return ds.maxDist
}

// SliderMax is the upper bound offered by the distance control: the largest
// distance rounded to the nearest mile.
func (ds *Dataset) SliderMax() float64 {
	return math.Round(ds.maxDist)
}

// PaymentMethods returns the sorted distinct payment values.
func (ds *Dataset) PaymentMethods() []string {
	out := make([]string, len(ds.payments))
	copy(out, ds.payments)
	return out
}

// HasPayment reports whether p is one of the observed payment values.
// The comparison is case-sensitive.
func (ds *Dataset) HasPayment(p string) bool {
	i := sort.SearchStrings(ds.payments, p)
	return i < len(ds.payments) && ds.payments[i] == p
}
