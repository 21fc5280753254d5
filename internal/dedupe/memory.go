package dedupe

import (
	"context"
	"sync"
)

// Memory is the default in-process Set, reset per run.
type Memory struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemory creates an empty in-memory set.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Seen(_ context.Context, hash string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	source, ok := m.entries[hash]
	return source, ok, nil
}

func (m *Memory) Add(_ context.Context, hash, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[hash]; !ok {
		m.entries[hash] = source
	}
	return nil
}
