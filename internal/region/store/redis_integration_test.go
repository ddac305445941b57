//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"eramap/internal/platform/config"
	platformredis "eramap/internal/platform/redis"
	"eramap/internal/region/models"
	"eramap/internal/region/store"
	"eramap/pkg/platform/sentinel"
	"eramap/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	container *containers.RedisContainer
	client    *platformredis.Client
	cache     *store.RedisCacheStore
	custom    *store.RedisCustomStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.container = containers.NewRedisContainer(s.T())

	client, err := platformredis.New(config.RedisConfig{URL: s.container.URL})
	s.Require().NoError(err)
	s.Require().NotNil(client)
	s.client = client

	s.cache = store.NewRedisCacheStore(client)
	s.custom = store.NewRedisCustomStore(client)
}

func (s *RedisStoreSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.container.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestCacheRoundTrip() {
	ctx := context.Background()
	key := store.InferenceKey("Roman Empire", -27, 117)
	entry := store.Entry{
		Result: models.RegionResult{
			Countries:  []string{"IT", "FR", "GR"},
			Confidence: models.ConfidenceHigh,
			Reasoning:  "Trajanic borders",
			Source:     models.SourceTemporal,
			ResolvedAt: time.Now().UTC().Truncate(time.Second),
		},
		CachedAt: time.Now().UTC().Truncate(time.Second),
	}

	s.Require().NoError(s.cache.Set(ctx, key, entry))

	got, err := s.cache.Get(ctx, key)
	s.Require().NoError(err)
	s.Equal(entry.Result.Countries, got.Result.Countries)
	s.Equal(entry.Result.Source, got.Result.Source)
	s.True(entry.CachedAt.Equal(got.CachedAt))
}

func (s *RedisStoreSuite) TestCacheMissReturnsNotFound() {
	_, err := s.cache.Get(context.Background(), store.InferenceKey("unknown", 0, 0))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestCacheDelete() {
	ctx := context.Background()
	key := store.PeriodKey("Viking Age")
	s.Require().NoError(s.cache.Set(ctx, key, store.Entry{CachedAt: time.Now()}))

	s.Require().NoError(s.cache.Delete(ctx, key))

	_, err := s.cache.Get(ctx, key)
	s.ErrorIs(err, sentinel.ErrNotFound)

	// Deleting an absent key is a no-op.
	s.NoError(s.cache.Delete(ctx, key))
}

func (s *RedisStoreSuite) TestCacheClearAndStats() {
	ctx := context.Background()
	now := time.Now().UTC()
	for i, era := range []string{"a", "b", "c"} {
		entry := store.Entry{CachedAt: now.Add(time.Duration(i) * time.Minute)}
		s.Require().NoError(s.cache.Set(ctx, store.InferenceKey(era, 0, 100), entry))
	}

	stats, err := s.cache.Stats(ctx)
	s.Require().NoError(err)
	s.Equal(3, stats.Entries)
	s.Greater(stats.SizeKB, 0.0)
	s.True(stats.Oldest.Before(stats.Newest))

	s.Require().NoError(s.cache.Clear(ctx))

	stats, err = s.cache.Stats(ctx)
	s.Require().NoError(err)
	s.Equal(0, stats.Entries)
}

func (s *RedisStoreSuite) TestCacheClearLeavesCustomMappings() {
	ctx := context.Background()
	s.Require().NoError(s.custom.Set(ctx, "Sengoku", store.CustomMapping{Countries: []string{"JP"}}))
	s.Require().NoError(s.cache.Set(ctx, store.InferenceKey("Sengoku", 1467, 1615), store.Entry{CachedAt: time.Now()}))
	s.Require().NoError(s.cache.Set(ctx, store.PeriodKey("Sengoku"), store.Entry{CachedAt: time.Now()}))

	s.Require().NoError(s.cache.Clear(ctx))

	stats, err := s.cache.Stats(ctx)
	s.Require().NoError(err)
	s.Equal(0, stats.Entries)

	got, err := s.custom.Get(ctx, "sengoku")
	s.Require().NoError(err)
	s.Equal([]string{"JP"}, got.Countries)
}

func (s *RedisStoreSuite) TestCustomRoundTrip() {
	ctx := context.Background()
	mapping := store.CustomMapping{
		Countries:   []string{"KZ", "MN"},
		Timeframe:   "1206-1368",
		Description: "Steppe khanates",
	}

	s.Require().NoError(s.custom.Set(ctx, "Mongol Empire", mapping))

	got, err := s.custom.Get(ctx, "mongol empire")
	s.Require().NoError(err)
	s.Equal(mapping.Countries, got.Countries)
	s.Equal(mapping.Timeframe, got.Timeframe)
}

func (s *RedisStoreSuite) TestCustomListPreservesDisplayName() {
	ctx := context.Background()
	s.Require().NoError(s.custom.Set(ctx, "Mongol Empire", store.CustomMapping{Countries: []string{"MN"}}))
	s.Require().NoError(s.custom.Set(ctx, "Edo Period", store.CustomMapping{Countries: []string{"JP"}}))

	all, err := s.custom.List(ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
	s.Contains(all, "Mongol Empire")
	s.Contains(all, "Edo Period")
}

func (s *RedisStoreSuite) TestCustomDeleteAndClear() {
	ctx := context.Background()
	s.Require().NoError(s.custom.Set(ctx, "Edo Period", store.CustomMapping{Countries: []string{"JP"}}))

	s.Require().NoError(s.custom.Delete(ctx, "edo period"))
	_, err := s.custom.Get(ctx, "Edo Period")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.custom.Set(ctx, "A", store.CustomMapping{Countries: []string{"FR"}}))
	s.Require().NoError(s.custom.Set(ctx, "B", store.CustomMapping{Countries: []string{"DE"}}))
	s.Require().NoError(s.custom.Clear(ctx))

	all, err := s.custom.List(ctx)
	s.Require().NoError(err)
	s.Empty(all)
}
