// Package redis is a redis implementation of kv.Store.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/fomo-app/fomo/internal/kv"
)

type store struct {
	client *redis.Client
	prefix string
}

// Options ...
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, so several devices may share one redis.
	Prefix string
}

// New connects to redis and checks connection.
func New(ctx context.Context, opts Options) (kv.Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewWithClient(client, opts.Prefix), nil
}

// NewWithClient creates store over existing client.
func NewWithClient(client *redis.Client, prefix string) kv.Store {
	return store{
		client: client,
		prefix: prefix,
	}
}

func (s store) key(k string) string {
	return s.prefix + k
}

func (s store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return b, nil
}

func (s store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}

func (s store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}
