package index

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxi-dashboard/dashboard"
	"taxi-dashboard/dataset"
)

func bundled(t *testing.T) *dataset.Dataset {
	ds, _, err := dataset.Bundled()
	require.NoError(t, err)
	return ds
}

func TestDistanceIndex_MatchesScan(t *testing.T) {
	ds := bundled(t)
	idx := NewDistanceIndex(ds)
	assert.Equal(t, ds.Len(), idx.Size())

	sels := []dashboard.Selection{
		dashboard.DefaultSelection(ds),
		{DistanceMin: 0, DistanceMax: ds.MaxDistance(), Payment: dashboard.AllPayments},
		{DistanceMin: 1, DistanceMax: 3, Payment: "cash"},
		{DistanceMin: 2.5, DistanceMax: 2.5, Payment: "credit card"},
		{DistanceMin: 0, DistanceMax: 0, Payment: dashboard.AllPayments},
		{DistanceMin: 0, DistanceMax: 17, Payment: "bitcoin"},
	}
	for _, sel := range sels {
		assert.Equal(t, dashboard.Filter(ds, sel), idx.Filter(sel), sel.Key())
	}
}

func TestDistanceIndex_BoundaryRows(t *testing.T) {
	ds := bundled(t)
	idx := NewDistanceIndex(ds)

	d := ds.At(5).Distance
	sel := dashboard.Selection{DistanceMin: d, DistanceMax: d, Payment: dashboard.AllPayments}
	got := idx.Filter(sel)
	require.NotEmpty(t, got)
	for _, tr := range got {
		assert.Equal(t, d, tr.Distance)
	}
}

func TestDistanceIndex_Property(t *testing.T) {
	ds := bundled(t)
	idx := NewDistanceIndex(ds)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("rtree filter equals linear scan", prop.ForAll(
		func(a, b float64, p string) bool {
			if a > b {
				a, b = b, a
			}
			sel := dashboard.Selection{DistanceMin: a, DistanceMax: b, Payment: p}
			want, got := dashboard.Filter(ds, sel), idx.Filter(sel)
			if len(want) != len(got) {
				return false
			}
			for i := range want {
				if want[i] != got[i] {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, ds.SliderMax()),
		gen.Float64Range(0, ds.SliderMax()),
		gen.OneConstOf(dashboard.AllPayments, "cash", "credit card"),
	))

	properties.TestingRun(t)
}

func TestNewFilterer(t *testing.T) {
	ds := bundled(t)

	f, err := NewFilterer(ds, "")
	require.NoError(t, err)
	assert.IsType(t, &dashboard.Scanner{}, f)

	f, err = NewFilterer(ds, RTreeTechnique)
	require.NoError(t, err)
	assert.IsType(t, &DistanceIndex{}, f)

	_, err = NewFilterer(ds, "quadtree")
	assert.ErrorIs(t, err, ErrUnsupportedTechnique)
}
