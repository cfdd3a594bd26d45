package cache

import (
	"context"
	"errors"
	"sync"

	"taxi-dashboard/dashboard"
)

var ErrNotFound = errors.New("session not found")

// SelectionStore keeps the filter selection of each session. Selections of
// different sessions never share state.
type SelectionStore interface {
	Get(ctx context.Context, sessionID string) (dashboard.Selection, error)
	Set(ctx context.Context, sessionID string, sel dashboard.Selection) error
	Delete(ctx context.Context, sessionID string) error
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]dashboard.Selection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]dashboard.Selection)}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (dashboard.Selection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sel, ok := m.data[sessionID]
	if !ok {
		return dashboard.Selection{}, ErrNotFound
	}
	return sel, nil
}

func (m *MemoryStore) Set(_ context.Context, sessionID string, sel dashboard.Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = sel
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}
