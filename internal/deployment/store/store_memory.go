// Package store persists the append-only deployment key -> suite record map
// of a coordinator.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"assetgov/pkg/domain"
	"assetgov/pkg/platform/sentinel"
	"assetgov/pkg/platform/tx"
)

// Record is what one successful deployment leaves behind.
type Record struct {
	Key        string       `json:"key"`
	Suite      domain.Suite `json:"suite"`
	DeployedAt time.Time    `json:"deployed_at"`
}

// InMemoryStore keeps records in memory. Inserts made inside a substrate
// operation are journaled.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]Record)}
}

// Insert records rec under rec.Key. Returns sentinel.ErrAlreadyUsed if the
// key is taken.
func (s *InMemoryStore) Insert(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.Key]; ok {
		return fmt.Errorf("key %q: %w", rec.Key, sentinel.ErrAlreadyUsed)
	}
	s.records[rec.Key] = rec
	tx.Record(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.records, rec.Key)
	})
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, key string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return Record{}, fmt.Errorf("key %q: %w", key, sentinel.ErrNotFound)
	}
	return rec, nil
}
