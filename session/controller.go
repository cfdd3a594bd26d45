package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"taxi-dashboard/cache"
	"taxi-dashboard/dashboard"
	"taxi-dashboard/dataset"
)

var ErrNotFound = cache.ErrNotFound

var tracer = otel.Tracer("taxi-dashboard/session")

// Controller owns the shared dataset and the per-session selections. Every
// read recomputes from one selection snapshot, memoized by selection.
type Controller struct {
	ds     *dataset.Dataset
	filter dashboard.Filterer
	store  cache.SelectionStore
	memo   *cache.SnapshotMemo
}

func NewController(ds *dataset.Dataset, filter dashboard.Filterer, store cache.SelectionStore, memo *cache.SnapshotMemo) *Controller {
	return &Controller{ds: ds, filter: filter, store: store, memo: memo}
}

func (c *Controller) Dataset() *dataset.Dataset {
	return c.ds
}

// Create starts a session with the default selection.
func (c *Controller) Create(ctx context.Context) (string, dashboard.Selection, error) {
	id := uuid.NewString()
	sel := dashboard.DefaultSelection(c.ds)
	if err := c.store.Set(ctx, id, sel); err != nil {
		return "", sel, fmt.Errorf("creating session: %w", err)
	}
	return id, sel, nil
}

func (c *Controller) Selection(ctx context.Context, id string) (dashboard.Selection, error) {
	return c.store.Get(ctx, id)
}

// Update clamps sel to the slider bounds, validates it, and stores it for
// the session. The session must exist.
func (c *Controller) Update(ctx context.Context, id string, sel dashboard.Selection) (dashboard.Selection, error) {
	if _, err := c.store.Get(ctx, id); err != nil {
		return sel, err
	}
	sel = sel.Clamp(c.ds)
	if err := sel.Validate(c.ds); err != nil {
		return sel, err
	}
	if err := c.store.Set(ctx, id, sel); err != nil {
		return sel, fmt.Errorf("updating session: %w", err)
	}
	return sel, nil
}

func (c *Controller) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, id)
}

// Snapshot reads the session's selection once and derives every view from it.
func (c *Controller) Snapshot(ctx context.Context, id string) (dashboard.Snapshot, error) {
	sel, err := c.store.Get(ctx, id)
	if err != nil {
		return dashboard.Snapshot{}, err
	}
	return c.Compute(ctx, sel), nil
}

// Compute derives the snapshot of sel without any session. The returned
// snapshot may be shared with other callers and must not be modified.
func (c *Controller) Compute(ctx context.Context, sel dashboard.Selection) dashboard.Snapshot {
	_, span := tracer.Start(ctx, "dashboard.compute", trace.WithAttributes(
		attribute.Float64("selection.distance_min", sel.DistanceMin),
		attribute.Float64("selection.distance_max", sel.DistanceMax),
		attribute.String("selection.payment", sel.Payment),
	))
	defer span.End()

	if c.memo != nil {
		if snap, ok := c.memo.Get(sel); ok {
			span.SetAttributes(attribute.Bool("memo.hit", true))
			return snap
		}
	}
	snap := dashboard.Compute(c.filter, sel)
	span.SetAttributes(attribute.Bool("memo.hit", false), attribute.Int("rows", snap.Metrics.Count))
	if c.memo != nil {
		c.memo.Set(sel, snap)
	}
	return snap
}

// IsInvalid reports whether err is a rejected selection rather than a store
// failure.
func IsInvalid(err error) bool {
	return errors.Is(err, dashboard.ErrInvalidRange) || errors.Is(err, dashboard.ErrUnknownPayment)
}
