// Package inmem provides the in-memory ProfileStore backend.
package inmem

import (
	"context"
	"sync"

	"github.com/sahayak-ai/sahayak/memory"
)

// Store is a mutex-guarded map keyed by user ID. Reads and writes clone the
// record so callers can never mutate a stored profile through an alias.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*memory.StudentProfile
}

func New() *Store {
	return &Store{
		profiles: make(map[string]*memory.StudentProfile),
	}
}

// Get returns the stored profile, or (nil, nil) when the user has none.
func (s *Store) Get(ctx context.Context, userID string) (*memory.StudentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

// Put overwrites the stored profile for the user (last-write-wins).
func (s *Store) Put(ctx context.Context, userID string, profile *memory.StudentProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[userID] = profile.Clone()
	return nil
}
