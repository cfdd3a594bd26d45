package index

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"taxi-dashboard/dashboard"
	"taxi-dashboard/dataset"
	"taxi-dashboard/models"
)

// tolerance is the half-width of each trip's bounding box.
const tolerance = 0.0001

// tripPoint places a trip at (distance, payment code) so rtreego can index it.
type tripPoint struct {
	row   int
	where rtreego.Rect
}

func (p *tripPoint) Bounds() rtreego.Rect {
	return p.where
}

// DistanceIndex is an R-tree over (distance, payment) used to prune
// candidates before the exact predicate runs.
type DistanceIndex struct {
	ds    *dataset.Dataset
	tree  *rtreego.Rtree
	codes map[string]float64
}

// NewDistanceIndex indexes every trip of ds.
func NewDistanceIndex(ds *dataset.Dataset) *DistanceIndex {
	idx := &DistanceIndex{
		ds:    ds,
		tree:  rtreego.NewTree(2, 25, 50),
		codes: make(map[string]float64),
	}
	for i, p := range ds.PaymentMethods() {
		idx.codes[p] = float64(i)
	}
	ds.Each(func(i int, t models.Trip) bool {
		pt := rtreego.Point{t.Distance, idx.codes[t.Payment]}
		idx.tree.Insert(&tripPoint{row: i, where: pt.ToRect(tolerance)})
		return true
	})
	return idx
}

func (idx *DistanceIndex) Size() int {
	return idx.tree.Size()
}

// Filter returns the same rows, in the same order, as dashboard.Filter.
func (idx *DistanceIndex) Filter(sel dashboard.Selection) []models.Trip {
	out := []models.Trip{}
	query, ok := idx.queryRect(sel)
	if !ok {
		return out
	}

	hits := idx.tree.SearchIntersect(query)
	rows := make([]int, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, h.(*tripPoint).row)
	}
	sort.Ints(rows)

	for _, i := range rows {
		t := idx.ds.At(i)
		if sel.Matches(t.Distance, t.Payment) {
			out = append(out, t)
		}
	}
	return out
}

func (idx *DistanceIndex) queryRect(sel dashboard.Selection) (rtreego.Rect, bool) {
	if sel.DistanceMin > sel.DistanceMax {
		return rtreego.Rect{}, false
	}
	lo, span := -0.5, float64(len(idx.codes))
	if sel.Payment != dashboard.AllPayments {
		code, ok := idx.codes[sel.Payment]
		if !ok {
			return rtreego.Rect{}, false
		}
		lo, span = code-0.5, 1
	}
	corner := rtreego.Point{sel.DistanceMin - tolerance, lo}
	rect, err := rtreego.NewRect(corner, []float64{sel.DistanceMax - sel.DistanceMin + 2*tolerance, span})
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rect, true
}
