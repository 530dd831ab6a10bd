// internal/console/draftcache/redis.go
package draftcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"partner-console/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the same whole-blob semantics as the file store, under the
// fixed storage key, for deployments where drafts should follow the operator
// across machines. Records expire after the configured TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			copied := rec
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *RedisStore) Upsert(ctx context.Context, id string, images []string) error {
	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, upsertRecord(records, id, images))
}

func (s *RedisStore) All(ctx context.Context) ([]Record, error) {
	return s.load(ctx)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i, rec := range records {
		if rec.ID == id {
			records = append(records[:i], records[i+1:]...)
			break
		}
	}
	return s.save(ctx, records)
}

func (s *RedisStore) load(ctx context.Context) ([]Record, error) {
	data, err := s.client.Get(ctx, StorageKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read draft blob from redis: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		// Same recovery as the file store: a corrupt blob is only cosmetic.
		return nil, nil
	}
	return records, nil
}

func (s *RedisStore) save(ctx context.Context, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode draft blob: %w", err)
	}
	if err := s.client.Set(ctx, StorageKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write draft blob to redis: %w", err)
	}
	metrics.DraftCacheEntries.Set(float64(len(records)))
	return nil
}
