package index

import (
	"errors"
	"fmt"

	"taxi-dashboard/dashboard"
	"taxi-dashboard/dataset"
)

type FilterTechnique string

const (
	ScanTechnique  FilterTechnique = "scan"
	RTreeTechnique FilterTechnique = "rtree"
)

var ErrUnsupportedTechnique = errors.New("unsupported filter technique")

// NewFilterer builds the Filterer for technique. An empty technique means a
// linear scan.
func NewFilterer(ds *dataset.Dataset, technique FilterTechnique) (dashboard.Filterer, error) {
	switch technique {
	case "", ScanTechnique:
		return dashboard.NewScanner(ds), nil
	case RTreeTechnique:
		return NewDistanceIndex(ds), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTechnique, technique)
	}
}
