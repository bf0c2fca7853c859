// Package memory provides an in-memory session snapshot store, mainly for
// tests and single-process hosts.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/weft/pkg/session"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]*session.Snapshot
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*session.Snapshot),
	}
}

// Save persists the snapshot in memory. The snapshot is copied so later
// caller mutations don't leak into the store.
func (s *Store) Save(ctx context.Context, id string, snap *session.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = copySnapshot(snap)
	return nil
}

// Load retrieves a copy of the snapshot.
func (s *Store) Load(ctx context.Context, id string) (*session.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.data[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return copySnapshot(snap), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored session IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func copySnapshot(snap *session.Snapshot) *session.Snapshot {
	out := &session.Snapshot{
		Protocol:  snap.Protocol,
		Responses: make(map[string]map[string]any, len(snap.Responses)),
		History:   make([]string, len(snap.History)),
	}
	for step, resp := range snap.Responses {
		r := make(map[string]any, len(resp))
		for k, v := range resp {
			r[k] = v
		}
		out.Responses[step] = r
	}
	copy(out.History, snap.History)
	return out
}
