// Package store persists the insert-once version -> bundle map of a registry.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"assetgov/pkg/domain"
	"assetgov/pkg/platform/sentinel"
	"assetgov/pkg/platform/tx"
)

// Entry is one recorded version.
type Entry struct {
	Version domain.Version `json:"version"`
	Bundle  domain.Bundle  `json:"bundle"`
}

// InMemoryStore keeps the bundles of one registry in memory. Inserts made
// inside a substrate operation are journaled.
type InMemoryStore struct {
	mu      sync.RWMutex
	bundles map[domain.VersionKey]Entry
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{bundles: make(map[domain.VersionKey]Entry)}
}

// Insert records b under v. Returns sentinel.ErrAlreadyUsed if v is taken.
func (s *InMemoryStore) Insert(ctx context.Context, v domain.Version, b domain.Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := v.Key()
	if _, ok := s.bundles[key]; ok {
		return fmt.Errorf("version %s: %w", v, sentinel.ErrAlreadyUsed)
	}
	s.bundles[key] = Entry{Version: v, Bundle: b}
	tx.Record(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.bundles, key)
	})
	return nil
}

// Get returns the bundle stored under v or sentinel.ErrNotFound.
func (s *InMemoryStore) Get(_ context.Context, v domain.Version) (domain.Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.bundles[v.Key()]
	if !ok {
		return domain.Bundle{}, fmt.Errorf("version %s: %w", v, sentinel.ErrNotFound)
	}
	return e.Bundle, nil
}

// List returns every entry in ascending version order.
func (s *InMemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.bundles))
	for _, e := range s.bundles {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version.Compare(out[j].Version) < 0 })
	return out, nil
}
