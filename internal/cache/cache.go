// Package cache holds enrichment results keyed by the exact website string a caller supplied.
package cache

import (
	"slices"
	"sync"
	"time"

	"github.com/jonathan/company-enricher/internal/types"
)

// Cache stores enrichment records by website URL.
type Cache interface {
	Get(key string) (types.EnrichmentRecord, bool)
	Set(key string, record types.EnrichmentRecord)
	Has(key string) bool
}

// Entry is a cached record plus the time it was written.
type Entry struct {
	Data      types.EnrichmentRecord `json:"data"`
	Timestamp string                 `json:"timestamp"`

	storedAt time.Time
}

// Memory is a process-local Cache safe for concurrent use.
// Keys are not normalized: "http://x.com" and "http://x.com/" are distinct.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]Entry
	now     func() time.Time
}

// NewMemory creates an empty cache. A ttl of zero keeps entries for the life of the process.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Get returns the record stored under key.
func (m *Memory) Get(key string) (types.EnrichmentRecord, bool) {
	entry, ok := m.Entry(key)
	if !ok {
		return types.EnrichmentRecord{}, false
	}
	return entry.Data, true
}

// Entry returns the full cache entry stored under key.
func (m *Memory) Entry(key string) (Entry, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || m.expired(entry) {
		return Entry{}, false
	}
	entry.Data = cloneRecord(entry.Data)
	return entry, true
}

// Set stores record under key, replacing any previous entry.
func (m *Memory) Set(key string, record types.EnrichmentRecord) {
	now := m.now()
	m.mu.Lock()
	m.entries[key] = Entry{
		Data:      cloneRecord(record),
		Timestamp: types.FormatTimestamp(now),
		storedAt:  now,
	}
	m.mu.Unlock()
}

// Has reports whether a live entry exists for key.
func (m *Memory) Has(key string) bool {
	_, ok := m.Entry(key)
	return ok
}

// Len returns the number of stored entries, including expired ones not yet overwritten.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) expired(entry Entry) bool {
	return m.ttl > 0 && m.now().Sub(entry.storedAt) > m.ttl
}

// cloneRecord copies the slices of r so callers never share backing arrays with the cache.
func cloneRecord(r types.EnrichmentRecord) types.EnrichmentRecord {
	r.WhatTheyDo = slices.Clone(r.WhatTheyDo)
	r.Keywords = slices.Clone(r.Keywords)
	r.Signals = slices.Clone(r.Signals)
	r.Sources = slices.Clone(r.Sources)
	return r
}
