package kvstore

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is an opaque key-value store. Values are whole documents; the last
// write for a key wins.
type Store interface {
	// Get returns ErrKeyNotFound when nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove is a no-op for keys that do not exist.
	Remove(ctx context.Context, key string) error
}
