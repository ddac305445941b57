package store

import (
	"context"
	"testing"
	"time"

	"eramap/internal/region/models"
	"eramap/pkg/platform/sentinel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyNormalization(t *testing.T) {
	t.Run("inference keys fold case and punctuation", func(t *testing.T) {
		a := InferenceKey("Roman Empire", -27, 117)
		b := InferenceKey("roman  empire!", -27, 117)
		assert.Equal(t, a, b)
		assert.Equal(t, "infer:roman_empire:-27:117", a)
	})

	t.Run("different year ranges get different keys", func(t *testing.T) {
		assert.NotEqual(t,
			InferenceKey("Viking Age", 793, 850),
			InferenceKey("Viking Age", 851, 999))
	})

	t.Run("period keys live in their own namespace", func(t *testing.T) {
		assert.Equal(t, "region:viking_age", PeriodKey("Viking Age"))
	})
}

func TestMemoryCacheStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCacheStore()

	entry := Entry{
		Result: models.RegionResult{
			Countries:  []string{"IT"},
			Confidence: models.ConfidenceHigh,
			Source:     models.SourceTemporal,
		},
		CachedAt: time.Now(),
	}

	t.Run("miss before set", func(t *testing.T) {
		_, err := s.Get(ctx, "infer:x:0:1")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "infer:x:0:1", entry))
		got, err := s.Get(ctx, "infer:x:0:1")
		require.NoError(t, err)
		assert.Equal(t, entry.Result.Countries, got.Result.Countries)
	})

	t.Run("delete single entry", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "infer:x:0:1"))
		_, err := s.Get(ctx, "infer:x:0:1")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("clear wipes everything", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "a", entry))
		require.NoError(t, s.Set(ctx, "b", entry))
		require.NoError(t, s.Clear(ctx))
		stats, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.Entries)
	})
}

func TestMemoryCacheStoreStats(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCacheStore()

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Set(ctx, "a", Entry{CachedAt: old}))
	require.NoError(t, s.Set(ctx, "b", Entry{CachedAt: recent}))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Greater(t, stats.SizeKB, 0.0)
	assert.Equal(t, old, stats.Oldest)
	assert.Equal(t, recent, stats.Newest)
}

func TestMemoryCustomStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCustomStore()

	mapping := CustomMapping{
		Countries:   []string{"PL", "LT"},
		Timeframe:   "1569-1795",
		Description: "Polish-Lithuanian Commonwealth",
	}

	t.Run("case-insensitive key", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "Polish-Lithuanian Commonwealth", mapping))
		got, err := s.Get(ctx, "polish-lithuanian COMMONWEALTH")
		require.NoError(t, err)
		assert.Equal(t, mapping, got)
	})

	t.Run("list preserves display names", func(t *testing.T) {
		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, all, "Polish-Lithuanian Commonwealth")
	})

	t.Run("delete then miss", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "POLISH-lithuanian commonwealth"))
		_, err := s.Get(ctx, "Polish-Lithuanian Commonwealth")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "A", mapping))
		require.NoError(t, s.Set(ctx, "B", mapping))
		require.NoError(t, s.Clear(ctx))
		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
