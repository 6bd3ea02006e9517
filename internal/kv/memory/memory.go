// Package memory is an in-memory implementation of kv.Store.
package memory

import (
	"context"
	"sync"

	"github.com/fomo-app/fomo/internal/kv"
)

type store struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// New creates new instance of in-memory store.
func New() kv.Store {
	return &store{
		m: make(map[string][]byte),
	}
}

func (s *store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.m[key]
	if !ok {
		return nil, kv.ErrNotFound
	}

	return append([]byte(nil), v...), nil
}

func (s *store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[key] = append([]byte(nil), value...)

	return nil
}

func (s *store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, key)

	return nil
}
