// Package textstore keeps extracted text addressable by an opaque id so
// follow-up generation requests can reference a prior upload.
package textstore

import (
	"context"
	"sync"
	"time"
)

// Store is the text cache shared by the upload and generation endpoints.
// Empty text is never stored.
type Store interface {
	Save(ctx context.Context, id, text string) error
	Get(ctx context.Context, id string) (string, bool, error)
}

type memoryEntry struct {
	text      string
	expiresAt time.Time
}

// Memory is an in-process Store guarded by a mutex.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

// NewMemory creates an in-memory store. ttl <= 0 means entries never expire.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (m *Memory) Save(_ context.Context, id, text string) error {
	entry := memoryEntry{text: text}
	if m.ttl > 0 {
		entry.expiresAt = time.Now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[id] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return "", false, nil
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		// Lazy expiry: drop the stale entry on access.
		m.mu.Lock()
		if current, ok := m.entries[id]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(m.entries, id)
		}
		m.mu.Unlock()
		return "", false, nil
	}

	return entry.text, true, nil
}
