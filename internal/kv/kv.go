// Package kv contains an interface of on-device key/value storage.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound returned when key is absent.
var ErrNotFound = errors.New("not found")

// Store is a persistent key/value storage. Writes are synchronous: once Set returns
// the value is persisted.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
