// Package middleware contains http middlewares shared by handlers.
package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

type cachedResponse struct {
	code      int
	header    http.Header
	content   []byte
	expiresAt time.Time
}

// responses is an in-memory response storage with per-entry expiration.
type responses struct {
	mu sync.Mutex
	m  map[string]cachedResponse

	now func() time.Time
}

func (s *responses) get(key string) (cachedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.m[key]
	if !ok {
		return cachedResponse{}, false
	}

	if !s.now().Before(v.expiresAt) {
		delete(s.m, key)
		return cachedResponse{}, false
	}

	return v, true
}

func (s *responses) set(key string, v cachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[key] = v
}

// Cached caches successful responses of handler by request uri for ttl.
func Cached(ttl time.Duration, handler http.HandlerFunc) http.HandlerFunc {
	return cached(ttl, handler, time.Now)
}

func cached(ttl time.Duration, handler http.HandlerFunc, now func() time.Time) http.HandlerFunc {
	storage := &responses{
		m:   make(map[string]cachedResponse),
		now: now,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if v, ok := storage.get(r.RequestURI); ok {
			write(w, v)
			return
		}

		c := httptest.NewRecorder()
		handler(c, r)

		v := cachedResponse{
			code:      c.Code,
			header:    c.Header().Clone(),
			content:   c.Body.Bytes(),
			expiresAt: now().Add(ttl),
		}

		if v.code == http.StatusOK {
			storage.set(r.RequestURI, v)
		}

		write(w, v)
	}
}

func write(w http.ResponseWriter, v cachedResponse) {
	for k, h := range v.header {
		w.Header()[k] = h
	}

	w.WriteHeader(v.code)
	_, _ = w.Write(v.content)
}
