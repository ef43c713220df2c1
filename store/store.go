// Package store provides persisted key-value stores that survive restarts.
//
// The translation service keeps its selected language, cache snapshot and
// usage counter under a handful of well-known keys. Any Store can hold them.
package store

import (
	"context"

	"github.com/ZaguanLabs/agrilingo"
)

// Store is a string key-value store.
// A missing key is reported as ("", false, nil), never as an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Close() error
}

func getError(key string, err error) error {
	return &agrilingo.StoreError{Op: "get", Key: key, Cause: err}
}

func setError(key string, err error) error {
	return &agrilingo.StoreError{Op: "set", Key: key, Cause: err}
}

// Verify implementations satisfy both the local and the service interface
var (
	_ Store           = (*MemoryStore)(nil)
	_ Store           = (*FileStore)(nil)
	_ Store           = (*SQLiteStore)(nil)
	_ Store           = (*RedisStore)(nil)
	_ agrilingo.Store = Store(nil)
)
