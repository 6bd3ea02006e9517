// Package file is a JSON-file implementation of kv.Store.
// All keys are kept in a single JSON document which is rewritten atomically on every change.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fomo-app/fomo/internal/kv"
)

var log = logrus.WithField("layer", "kv").WithField("package", "file")

type store struct {
	mu   sync.RWMutex
	path string
	m    map[string]string
}

// New opens store located at path. Directory is created when missing.
// A missing file is an empty store; an unreadable document is logged and treated as empty.
func New(path string) (kv.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &store{
		path: path,
		m:    make(map[string]string),
	}

	b, err := ioutil.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if len(b) > 0 {
		if err := json.Unmarshal(b, &s.m); err != nil {
			log.WithError(err).WithField("path", path).Warn("corrupted store document, starting empty")
			s.m = make(map[string]string)
		}
	}

	return s, nil
}

func (s *store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.m[key]
	if !ok {
		return nil, kv.ErrNotFound
	}

	return []byte(v), nil
}

func (s *store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.m[key]
	s.m[key] = string(value)

	if err := s.flush(); err != nil {
		if existed {
			s.m[key] = prev
		} else {
			delete(s.m, key)
		}
		return err
	}

	return nil
}

func (s *store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.m[key]
	if !existed {
		return nil
	}
	delete(s.m, key)

	if err := s.flush(); err != nil {
		s.m[key] = prev
		return err
	}

	return nil
}

// flush writes document to a temp file and renames it over the original.
func (s *store) flush() error {
	tmp := s.path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.m); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
