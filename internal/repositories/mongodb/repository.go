package mongodb

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("document not found")

// Cache is the slice of the redis cache the repositories use for
// invalidation and hot reads. *cache.RedisCache satisfies it.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// nopCache lets repositories run without redis, e.g. in tests.
type nopCache struct{}

func (nopCache) Get(context.Context, string, interface{}) error               { return ErrNotFound }
func (nopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (nopCache) Delete(context.Context, ...string) error                       { return nil }

func orNopCache(c Cache) Cache {
	if c == nil {
		return nopCache{}
	}
	return c
}
