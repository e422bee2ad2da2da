package cache

import (
	"sync"
	"time"

	"SEOScanner/internal/domain"
	"SEOScanner/internal/ports"
)

// Memory is a TTL map cache keeping collected analysis data fresh for the
// configured window, so repeated analyses of the same URL skip the
// external calls.
type Memory struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	data     domain.CollectedData
	storedAt time.Time
}

var _ ports.AnalysisCache = (*Memory)(nil)

// NewMemory builds an empty cache; ttl defaults to 24h.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Memory{
		ttl:     ttl,
		entries: map[string]entry{},
		now:     time.Now,
	}
}

// Get returns the cached data when present and not expired.
func (m *Memory) Get(key string) (domain.CollectedData, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.storedAt) >= m.ttl {
		delete(m.entries, key)
		return nil, false
	}
	return e.data, true
}

// Set stores data under the key with the current timestamp.
func (m *Memory) Set(key string, data domain.CollectedData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{data: data, storedAt: m.now()}
}

// Clear drops all cached entries.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[string]entry{}
}
