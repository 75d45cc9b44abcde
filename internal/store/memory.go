package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory keeps saves in process. Used by the headless runner and tests.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
	at    map[string]time.Time
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		blobs: make(map[string][]byte),
		at:    make(map[string]time.Time),
		now:   time.Now,
	}
}

func (m *Memory) Save(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key = CleanKey(key)
	m.blobs[key] = append([]byte(nil), blob...)
	m.at[key] = m.now().UTC()
	return nil
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key = CleanKey(key)
	blob, ok := m.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), blob...), nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key = CleanKey(key)
	delete(m.blobs, key)
	delete(m.at, key)
	return nil
}

func (m *Memory) List(_ context.Context) ([]SlotInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SlotInfo, 0, len(m.blobs))
	for k, b := range m.blobs {
		out = append(out, SlotInfo{Key: k, Bytes: len(b), SavedAt: m.at[k]})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SavedAt.Equal(out[j].SavedAt) {
			return out[i].SavedAt.After(out[j].SavedAt)
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}
