package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	redisBucketsKey = "patrontheque:cache:buckets"
	redisEntryFmt   = "patrontheque:cache:%s:%s"
	redisKeysFmt    = "patrontheque:cache:%s:keys"
)

// RedisStore keeps cache entries in Redis, for deployments where several
// clients share one cache. Entries are JSON-encoded; bucket membership is
// tracked in a set per bucket so wholesale deletion stays cheap.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, bucket, key string) (*Entry, error) {
	raw, err := s.client.Get(ctx, fmt.Sprintf(redisEntryFmt, bucket, key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return &e, nil
}

func (s *RedisStore) Put(ctx context.Context, bucket, key string, e *Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, fmt.Sprintf(redisEntryFmt, bucket, key), raw, 0)
	pipe.SAdd(ctx, fmt.Sprintf(redisKeysFmt, bucket), key)
	pipe.SAdd(ctx, redisBucketsKey, bucket)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to put cache entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Buckets(ctx context.Context) ([]string, error) {
	buckets, err := s.client.SMembers(ctx, redisBucketsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}
	return buckets, nil
}

func (s *RedisStore) DeleteBucket(ctx context.Context, bucket string) error {
	keysKey := fmt.Sprintf(redisKeysFmt, bucket)
	keys, err := s.client.SMembers(ctx, keysKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list bucket keys: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, key := range keys {
		pipe.Del(ctx, fmt.Sprintf(redisEntryFmt, bucket, key))
	}
	pipe.Del(ctx, keysKey)
	pipe.SRem(ctx, redisBucketsKey, bucket)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	buckets, err := s.Buckets(ctx)
	if err != nil {
		return err
	}
	for _, b := range buckets {
		if err := s.DeleteBucket(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
