package store

import (
	"context"
	"sync"
	"time"
)

// MemorySlots keeps records in a map. Nothing survives the process.
type MemorySlots struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{records: make(map[string]Record)}
}

func (m *MemorySlots) Get(_ context.Context, key string) (Record, error) {
	if err := validateKey(key); err != nil {
		return Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[key]
	if !ok {
		return Record{}, ErrSlotNotFound
	}
	return rec, nil
}

func (m *MemorySlots) Put(_ context.Context, key, value string) (Record, error) {
	if err := validateKey(key); err != nil {
		return Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := Record{
		Key:       key,
		Value:     value,
		Version:   m.records[key].Version + 1,
		UpdatedAt: time.Now().UTC(),
		Source:    "memory:" + key,
	}
	m.records[key] = rec
	return rec, nil
}

func (m *MemorySlots) Close() error {
	return nil
}
