package metadata

import (
	"context"
)

// Repository is a small key-value store for session state and sync
// bookkeeping (identity, access token, last-sync timestamp, seed flag).
type Repository interface {
	// Get returns the value for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
