package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"taxi-dashboard/dashboard"
)

// SnapshotMemo memoizes snapshots by selection. The dataset is immutable, so
// a selection always maps to the same snapshot.
type SnapshotMemo struct {
	c *gocache.Cache
}

func NewSnapshotMemo(ttl, cleanupInterval time.Duration) *SnapshotMemo {
	return &SnapshotMemo{c: gocache.New(ttl, cleanupInterval)}
}

func (m *SnapshotMemo) Get(sel dashboard.Selection) (dashboard.Snapshot, bool) {
	v, ok := m.c.Get(cacheKey("snapshot", sel.Key()))
	if !ok {
		return dashboard.Snapshot{}, false
	}
	return v.(dashboard.Snapshot), true
}

func (m *SnapshotMemo) Set(sel dashboard.Selection, snap dashboard.Snapshot) {
	m.c.SetDefault(cacheKey("snapshot", sel.Key()), snap)
}

func (m *SnapshotMemo) Len() int {
	return m.c.ItemCount()
}

func (m *SnapshotMemo) Flush() {
	m.c.Flush()
}

func cacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}
