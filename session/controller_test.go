package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxi-dashboard/cache"
	"taxi-dashboard/dashboard"
	"taxi-dashboard/dataset"
	"taxi-dashboard/index"
)

func newController(t *testing.T) *Controller {
	t.Helper()
	ds, _, err := dataset.Bundled()
	require.NoError(t, err)
	return NewController(ds, index.NewDistanceIndex(ds), cache.NewMemoryStore(), cache.NewSnapshotMemo(time.Minute, time.Minute))
}

func TestController_CreateAndSnapshot(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	id, sel, err := c.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, dashboard.DefaultSelection(c.Dataset()), sel)

	snap, err := c.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sel, snap.Selection)
	assert.Equal(t, len(snap.Rows), snap.Metrics.Count)
	assert.Len(t, snap.Comparison.Bars, 2)
}

func TestController_Update(t *testing.T) {
	ctx := context.Background()
	c := newController(t)
	id, _, err := c.Create(ctx)
	require.NoError(t, err)

	sel, err := c.Update(ctx, id, dashboard.Selection{DistanceMin: -1, DistanceMax: 300, Payment: "cash"})
	require.NoError(t, err)
	assert.Equal(t, dashboard.Selection{DistanceMin: 0, DistanceMax: 17, Payment: "cash"}, sel)

	snap, err := c.Snapshot(ctx, id)
	require.NoError(t, err)
	for _, r := range snap.Rows {
		assert.Equal(t, "cash", r.Payment)
	}
	require.Len(t, snap.Comparison.Bars, 1)
	assert.Equal(t, "cash", snap.Comparison.Bars[0].Label)

	_, err = c.Update(ctx, id, dashboard.Selection{DistanceMin: 5, DistanceMax: 2, Payment: dashboard.AllPayments})
	assert.True(t, IsInvalid(err))
	_, err = c.Update(ctx, id, dashboard.Selection{DistanceMin: 0, DistanceMax: 2, Payment: "Cash"})
	assert.True(t, IsInvalid(err))

	kept, err := c.Selection(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "cash", kept.Payment)
}

func TestController_UnknownSession(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	_, err := c.Snapshot(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Update(ctx, "missing", dashboard.DefaultSelection(c.Dataset()))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsInvalid(err))
}

func TestController_ComputeIsMemoized(t *testing.T) {
	ctx := context.Background()
	c := newController(t)
	sel := dashboard.Selection{DistanceMin: 1, DistanceMax: 4, Payment: dashboard.AllPayments}

	first := c.Compute(ctx, sel)
	assert.Equal(t, 1, c.memo.Len())
	second := c.Compute(ctx, sel)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.memo.Len())

	assert.Equal(t, dashboard.Compute(dashboard.NewScanner(c.Dataset()), sel), first)
}

func TestController_ConcurrentSessionsDoNotCrossContaminate(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	payments := []string{"cash", "credit card"}
	ids := make([]string, 20)
	for i := range ids {
		id, _, err := c.Create(ctx)
		require.NoError(t, err)
		ids[i] = id
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			want := payments[i%2]
			for j := 0; j < 10; j++ {
				hi := float64(2 + (i+j)%10)
				if _, err := c.Update(ctx, id, dashboard.Selection{DistanceMin: 0, DistanceMax: hi, Payment: want}); err != nil {
					errs <- err
					return
				}
				snap, err := c.Snapshot(ctx, id)
				if err != nil {
					errs <- err
					return
				}
				if snap.Selection.Payment != want || snap.Selection.DistanceMax != hi {
					errs <- fmt.Errorf("session %d saw selection %+v", i, snap.Selection)
					return
				}
				for _, r := range snap.Rows {
					if r.Payment != want || r.Distance > hi {
						errs <- fmt.Errorf("session %d saw row %+v", i, r)
						return
					}
				}
			}
		}(i, id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
