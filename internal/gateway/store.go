package gateway

import (
	"context"
	"net/http"
	"time"
)

// Entry is a cached response snapshot. There is no expiry: entries live
// until their bucket is deleted wholesale.
type Entry struct {
	Status   int
	Header   http.Header
	Body     []byte
	StoredAt time.Time
}

// Store persists cache entries grouped into named buckets. Implementations
// exist for SQLite (default, offline-capable), Redis and no-op.
type Store interface {
	// Get returns the entry for key in bucket, or (nil, nil) on a miss.
	Get(ctx context.Context, bucket, key string) (*Entry, error)

	// Put stores or replaces the entry for key in bucket.
	Put(ctx context.Context, bucket, key string, e *Entry) error

	// Buckets lists the bucket names that currently hold entries.
	Buckets(ctx context.Context) ([]string, error)

	// DeleteBucket removes a bucket and everything in it.
	DeleteBucket(ctx context.Context, bucket string) error

	// Clear removes all buckets.
	Clear(ctx context.Context) error
}

// NoOpStore implements Store but retains nothing: every lookup misses and
// writes vanish. Useful when caching is disabled.
type NoOpStore struct{}

func (NoOpStore) Get(ctx context.Context, bucket, key string) (*Entry, error) { return nil, nil }

func (NoOpStore) Put(ctx context.Context, bucket, key string, e *Entry) error { return nil }

func (NoOpStore) Buckets(ctx context.Context) ([]string, error) { return nil, nil }

func (NoOpStore) DeleteBucket(ctx context.Context, bucket string) error { return nil }

func (NoOpStore) Clear(ctx context.Context) error { return nil }
