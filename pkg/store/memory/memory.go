// Package memory provides an in-memory snapshot store for development
// and testing.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/daygrid/daygrid/pkg/store"
)

// Store is an in-memory snapshot store. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	snaps map[string]store.Snapshot
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{snaps: make(map[string]store.Snapshot)}
}

// Publish stores a snapshot.
func (s *Store) Publish(ctx context.Context, snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.snaps[snap.ID]; exists {
		return fmt.Errorf("snapshot %s already published", snap.ID)
	}
	s.snaps[snap.ID] = snap
	return nil
}

// Get retrieves a snapshot by ID.
func (s *Store) Get(ctx context.Context, id string) (store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[id]
	if !ok {
		return store.Snapshot{}, store.ErrNotFound
	}
	return snap, nil
}

// List returns snapshots for a date, newest first.
func (s *Store) List(ctx context.Context, date string) ([]store.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Snapshot
	for _, snap := range s.snaps {
		if date == "" || snap.Date == date {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, id)
	return nil
}

// Close does nothing.
func (s *Store) Close(ctx context.Context) error { return nil }

// Ensure Store implements store.Store.
var _ store.Store = (*Store)(nil)
