package memory

import (
	"context"
	"sync"
)

// Store keeps values in a map. It backs the memory backend and doubles as
// the test fake: Writes counts Set calls and FailWith injects errors.
type Store struct {
	mu     sync.Mutex
	items  map[string]string
	writes int
	err    error
}

// New returns an empty store.
func New() *Store {
	return &Store{items: make(map[string]string)}
}

// NewWith seeds the store with a copy of values.
func NewWith(values map[string]string) *Store {
	s := New()
	for k, v := range values {
		s.items[k] = v
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.items[key] = value
	s.writes++
	return nil
}

// Writes returns how many successful Set calls the store has seen.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// FailWith makes every later Get and Set return err. nil clears it.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Snapshot returns a copy of all stored values.
func (s *Store) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out
}
