package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/adubois/patrontheque/internal/dbx"
)

// SQLiteStore keeps cache entries in the local database, so cached responses
// survive restarts and work fully offline.
type SQLiteStore struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) Get(ctx context.Context, bucket, key string) (*Entry, error) {
	var (
		e        Entry
		headers  string
		storedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT status, headers, body, stored_at FROM cache_entries WHERE bucket = ? AND request_key = ?`,
		bucket, key).Scan(&e.Status, &headers, &e.Body, &storedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	if err := json.Unmarshal([]byte(headers), &e.Header); err != nil {
		return nil, fmt.Errorf("failed to decode cached headers: %w", err)
	}
	if e.Header == nil {
		e.Header = http.Header{}
	}
	if e.StoredAt, err = time.Parse(time.RFC3339Nano, storedAt); err != nil {
		return nil, fmt.Errorf("failed to parse stored_at: %w", err)
	}
	return &e, nil
}

func (s *SQLiteStore) Put(ctx context.Context, bucket, key string, e *Entry) error {
	headers, err := json.Marshal(e.Header)
	if err != nil {
		return fmt.Errorf("failed to encode headers: %w", err)
	}

	storedAt := e.StoredAt
	if storedAt.IsZero() {
		storedAt = s.now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (bucket, request_key, status, headers, body, stored_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(bucket, request_key) DO UPDATE SET status = excluded.status,
			headers = excluded.headers,
			body = excluded.body,
			stored_at = excluded.stored_at
	`, bucket, key, e.Status, string(headers), e.Body, storedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to put cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Buckets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT bucket FROM cache_entries`)
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}
	defer rows.Close()

	var buckets []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate buckets: %w", err)
	}
	return buckets, nil
}

func (s *SQLiteStore) DeleteBucket(ctx context.Context, bucket string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE bucket = ?`, bucket)
	if err != nil {
		return fmt.Errorf("failed to delete bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
