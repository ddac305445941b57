package store

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	platformredis "eramap/internal/platform/redis"
	"eramap/pkg/platform/sentinel"
)

const redisKeyspace = "eramap:"

// RedisCacheStore persists cache entries in Redis under a shared keyspace
// prefix. Entries carry no Redis TTL: expiry is a read-time, source-dependent
// decision made by the service layer.
type RedisCacheStore struct {
	client *platformredis.Client
}

func NewRedisCacheStore(client *platformredis.Client) *RedisCacheStore {
	return &RedisCacheStore{client: client}
}

func (s *RedisCacheStore) Get(ctx context.Context, key string) (Entry, error) {
	data, err := s.client.Get(ctx, redisKeyspace+key).Bytes()
	if err == goredis.Nil {
		return Entry{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("cache get: %w", err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// A corrupt entry is functionally a miss; leave deletion to Set.
		return Entry{}, sentinel.ErrNotFound
	}
	return entry, nil
}

func (s *RedisCacheStore) Set(ctx context.Context, key string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	return s.client.Set(ctx, redisKeyspace+key, data, 0).Err()
}

func (s *RedisCacheStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKeyspace+key).Err()
}

func (s *RedisCacheStore) Clear(ctx context.Context) error {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisCacheStore) Stats(ctx context.Context) (Stats, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	var bytes int
	for _, key := range keys {
		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		stats.Entries++
		bytes += len(data)
		if stats.Oldest.IsZero() || entry.CachedAt.Before(stats.Oldest) {
			stats.Oldest = entry.CachedAt
		}
		if entry.CachedAt.After(stats.Newest) {
			stats.Newest = entry.CachedAt
		}
	}
	stats.SizeKB = float64(bytes) / 1024
	return stats, nil
}

// scanKeys walks only the cache namespaces. The custom-mapping hash shares
// the keyspace prefix and must survive a cache clear.
func (s *RedisCacheStore) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	for _, prefix := range []string{inferencePrefix, periodPrefix} {
		var cursor uint64
		for {
			batch, next, err := s.client.Scan(ctx, cursor, redisKeyspace+prefix+"*", 100).Result()
			if err != nil {
				return nil, fmt.Errorf("cache scan: %w", err)
			}
			keys = append(keys, batch...)
			cursor = next
			if cursor == 0 {
				break
			}
		}
	}
	return keys, nil
}

const redisCustomKey = "eramap:custom"

// RedisCustomStore keeps all custom mappings in one hash so List and Clear
// stay single commands.
type RedisCustomStore struct {
	client *platformredis.Client
}

func NewRedisCustomStore(client *platformredis.Client) *RedisCustomStore {
	return &RedisCustomStore{client: client}
}

type customRecord struct {
	Period  string        `json:"period"`
	Mapping CustomMapping `json:"mapping"`
}

func (s *RedisCustomStore) Set(ctx context.Context, period string, mapping CustomMapping) error {
	data, err := json.Marshal(customRecord{Period: period, Mapping: mapping})
	if err != nil {
		return fmt.Errorf("custom marshal: %w", err)
	}
	return s.client.HSet(ctx, redisCustomKey, NormalizePeriod(period), data).Err()
}

func (s *RedisCustomStore) Get(ctx context.Context, period string) (CustomMapping, error) {
	data, err := s.client.HGet(ctx, redisCustomKey, NormalizePeriod(period)).Bytes()
	if err == goredis.Nil {
		return CustomMapping{}, sentinel.ErrNotFound
	}
	if err != nil {
		return CustomMapping{}, fmt.Errorf("custom get: %w", err)
	}
	var rec customRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return CustomMapping{}, sentinel.ErrNotFound
	}
	return rec.Mapping, nil
}

func (s *RedisCustomStore) Delete(ctx context.Context, period string) error {
	return s.client.HDel(ctx, redisCustomKey, NormalizePeriod(period)).Err()
}

func (s *RedisCustomStore) List(ctx context.Context) (map[string]CustomMapping, error) {
	raw, err := s.client.HGetAll(ctx, redisCustomKey).Result()
	if err != nil {
		return nil, fmt.Errorf("custom list: %w", err)
	}
	out := make(map[string]CustomMapping, len(raw))
	for _, data := range raw {
		var rec customRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			continue
		}
		out[rec.Period] = rec.Mapping
	}
	return out, nil
}

func (s *RedisCustomStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, redisCustomKey).Err()
}
