package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eramap/internal/audit"
	"eramap/internal/platform/metrics"
	"eramap/internal/region/ai"
	"eramap/internal/region/models"
	"eramap/internal/region/store"
	"eramap/internal/region/temporal"
	dErrors "eramap/pkg/domainerrors"
	"eramap/pkg/platform/sentinel"
)

type fakeAI struct {
	enabled bool
	resp    *ai.Response
	err     error
	calls   int
}

func (f *fakeAI) Enabled() bool { return f.enabled }

func (f *fakeAI) FetchRegions(_ context.Context, _ string, _, _ int, _ string) (*ai.Response, error) {
	f.calls++
	return f.resp, f.err
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (store.Entry, error) {
	return store.Entry{}, errors.New("storage unavailable")
}
func (failingCache) Set(context.Context, string, store.Entry) error {
	return errors.New("storage unavailable")
}
func (failingCache) Delete(context.Context, string) error { return errors.New("storage unavailable") }
func (failingCache) Clear(context.Context) error          { return errors.New("storage unavailable") }
func (failingCache) Stats(context.Context) (store.Stats, error) {
	return store.Stats{}, errors.New("storage unavailable")
}

type env struct {
	svc   *Service
	cache *store.MemoryCacheStore
	ai    *fakeAI
	sink  *audit.MemorySink
	now   time.Time
}

func newEnv(t *testing.T, opts ...Option) *env {
	t.Helper()

	e := &env{
		cache: store.NewMemoryCacheStore(),
		ai:    &fakeAI{},
		sink:  audit.NewMemorySink(),
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	logger := slog.New(slog.DiscardHandler)
	base := []Option{
		WithAI(e.ai),
		WithAudit(audit.NewPublisher(e.sink, logger)),
		WithMetrics(metrics.NewForTest()),
		WithLogger(logger),
		WithClock(func() time.Time { return e.now }),
	}

	svc, err := New(e.cache, store.NewMemoryCustomStore(), append(base, opts...)...)
	require.NoError(t, err)
	e.svc = svc
	return e
}

func TestNewRequiresStores(t *testing.T) {
	_, err := New(nil, store.NewMemoryCustomStore())
	require.Error(t, err)

	_, err = New(store.NewMemoryCacheStore(), nil)
	require.Error(t, err)
}

func TestInferRegionsRequiresEra(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.InferRegions(context.Background(), models.Query{Era: "   "})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
}

func TestInferRegionsTemporalSlice(t *testing.T) {
	e := newEnv(t)

	result, err := e.svc.InferRegions(context.Background(), models.Query{
		Era: "Viking Age", StartYear: 800, EndYear: 850,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"DK", "GB", "IE", "NO", "SE"}, result.Countries)
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)
	assert.Equal(t, models.SourceTemporal, result.Source)
	assert.Equal(t, e.now, result.ResolvedAt)

	entry, err := e.cache.Get(context.Background(), store.InferenceKey("Viking Age", 800, 850))
	require.NoError(t, err)
	assert.Equal(t, result.Countries, entry.Result.Countries)
}

func TestInferRegionsTemporalCaseInsensitive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	lower, err := e.svc.InferRegions(ctx, models.Query{Era: "viking age", StartYear: 800, EndYear: 850})
	require.NoError(t, err)
	title, err := e.svc.InferRegions(ctx, models.Query{Era: "Viking Age", StartYear: 800, EndYear: 850})
	require.NoError(t, err)

	assert.Equal(t, lower.Countries, title.Countries)
	assert.Equal(t, lower.Confidence, title.Confidence)
	assert.Equal(t, lower.Source, title.Source)
}

func TestInferRegionsTemporalDefaultIsMedium(t *testing.T) {
	e := newEnv(t)

	result, err := e.svc.InferRegions(context.Background(), models.Query{
		Era: "Viking Age", StartYear: 1700, EndYear: 1750,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ConfidenceMedium, result.Confidence)
	assert.Equal(t, models.SourceTemporal, result.Source)
	assert.Contains(t, result.Reasoning, "Default mapping")
}

func TestInferRegionsCustomBeatsStatic(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	custom := store.NewMemoryCustomStore()
	require.NoError(t, custom.Set(ctx, "Renaissance", store.CustomMapping{
		Countries:   []string{"IT"},
		Description: "Florence only",
	}))

	svc, err := New(e.cache, custom, WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)

	result, err := svc.InferRegions(ctx, models.Query{Era: "renaissance", StartYear: 1400, EndYear: 1500})
	require.NoError(t, err)

	assert.Equal(t, []string{"IT"}, result.Countries)
	assert.Equal(t, models.SourceCustom, result.Source)
	assert.Equal(t, models.ConfidenceMedium, result.Confidence)
	assert.Equal(t, "Florence only", result.Reasoning)
}

func TestInferRegionsStaticTable(t *testing.T) {
	e := newEnv(t)

	result, err := e.svc.InferRegions(context.Background(), models.Query{
		Era: "Renaissance", StartYear: 1400, EndYear: 1600,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"BE", "FR", "IT", "NL"}, result.Countries)
	assert.Equal(t, models.SourceHardcoded, result.Source)
	assert.Equal(t, models.ConfidenceMedium, result.Confidence)
}

func TestInferRegionsLiteralCode(t *testing.T) {
	e := newEnv(t)

	result, err := e.svc.InferRegions(context.Background(), models.Query{Era: " fr "})
	require.NoError(t, err)

	assert.Equal(t, []string{"FR"}, result.Countries)
	assert.Equal(t, models.SourceHardcoded, result.Source)
	assert.Zero(t, e.ai.calls)
}

func TestInferRegionsTextAnalysis(t *testing.T) {
	e := newEnv(t)

	result, err := e.svc.InferRegions(context.Background(), models.Query{
		Era: "Battle of Stalingrad", StartYear: 1942, EndYear: 1943,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"DE", "RU"}, result.Countries)
	assert.Equal(t, models.SourceTitleAnalysis, result.Source)
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)
}

func TestInferRegionsTextEscalationBySpan(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	medium, err := e.svc.InferRegions(ctx, models.Query{
		Era: "Battle of Stalingrad", StartYear: 1900, EndYear: 1990,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConfidenceMedium, medium.Confidence)

	low, err := e.svc.InferRegions(ctx, models.Query{
		Era: "Battle of Stalingrad", StartYear: 1800, EndYear: 1990,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ConfidenceLow, low.Confidence)
}

func TestInferRegionsAIRefinesTextHints(t *testing.T) {
	e := newEnv(t)
	e.ai.enabled = true
	e.ai.resp = &ai.Response{
		Countries:  []string{"RU"},
		Confidence: models.ConfidenceHigh,
		Reasoning:  "The battle took place at Stalingrad, in modern Russia",
	}

	result, err := e.svc.InferRegions(context.Background(), models.Query{
		Era: "Battle of Stalingrad", StartYear: 1942, EndYear: 1943,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, e.ai.calls)
	assert.Equal(t, []string{"RU"}, result.Countries)
	assert.Equal(t, models.SourceAI, result.Source)
	assert.Equal(t, []string{"DE", "RU"}, result.Suggestions)
}

func TestInferRegionsTextSurvivesAIFailure(t *testing.T) {
	e := newEnv(t)
	e.ai.enabled = true
	e.ai.err = errors.New("upstream unreachable")

	result, err := e.svc.InferRegions(context.Background(), models.Query{
		Era: "Battle of Stalingrad", StartYear: 1942, EndYear: 1943,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, e.ai.calls)
	assert.Equal(t, models.SourceTitleAnalysis, result.Source)
	assert.Equal(t, []string{"DE", "RU"}, result.Countries)
}

func TestInferRegionsAIOnly(t *testing.T) {
	e := newEnv(t)
	e.ai.enabled = true
	e.ai.resp = &ai.Response{
		Countries:  []string{"KH"},
		Confidence: models.ConfidenceMedium,
		Reasoning:  "The Khmer Empire was centered on modern Cambodia",
	}

	result, err := e.svc.InferRegions(context.Background(), models.Query{
		Era: "Khmerish golden period", StartYear: 900, EndYear: 1200,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"KH"}, result.Countries)
	assert.Equal(t, models.SourceAI, result.Source)
	assert.Equal(t, models.ConfidenceMedium, result.Confidence)
	assert.Empty(t, result.Suggestions)
}

func TestInferRegionsFallback(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	result, err := e.svc.InferRegions(ctx, models.Query{
		Era: "Totally Unknown Period", StartYear: 1000, EndYear: 1100,
	})
	require.NoError(t, err)

	assert.Empty(t, result.Countries)
	assert.Equal(t, models.ConfidenceLow, result.Confidence)
	assert.Equal(t, models.SourceFallback, result.Source)
	assert.Contains(t, result.Reasoning, "Totally Unknown Period")

	_, err = e.cache.Get(ctx, store.InferenceKey("Totally Unknown Period", 1000, 1100))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	events := e.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionFallbackServed, events[0].Action)
}

func TestInferRegionsFallbackRetriesTiers(t *testing.T) {
	e := newEnv(t)
	e.ai.enabled = true
	ctx := context.Background()
	q := models.Query{Era: "Totally Unknown Period", StartYear: 1000, EndYear: 1100}

	first, err := e.svc.InferRegions(ctx, q)
	require.NoError(t, err)
	require.Equal(t, models.SourceFallback, first.Source)
	require.Equal(t, 1, e.ai.calls)

	// The AI recovers; the earlier fallback must not have been cached.
	e.ai.resp = &ai.Response{Countries: []string{"JP"}, Confidence: models.ConfidenceMedium}

	second, err := e.svc.InferRegions(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, e.ai.calls)
	assert.Equal(t, models.SourceAI, second.Source)
	assert.Equal(t, []string{"JP"}, second.Countries)
}

func TestInferRegionsCacheIdempotence(t *testing.T) {
	e := newEnv(t)
	e.ai.enabled = true
	e.ai.resp = &ai.Response{
		Countries:  []string{"KH", "TH"},
		Confidence: models.ConfidenceMedium,
		Reasoning:  "Southeast Asian polity",
	}
	ctx := context.Background()
	q := models.Query{Era: "Khmerish golden period", StartYear: 900, EndYear: 1200}

	first, err := e.svc.InferRegions(ctx, q)
	require.NoError(t, err)
	require.Equal(t, 1, e.ai.calls)

	second, err := e.svc.InferRegions(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, 1, e.ai.calls, "second call must be served from cache")
	assert.Equal(t, first.Countries, second.Countries)
	assert.Equal(t, first.Source, second.Source)
	assert.Equal(t, first.Confidence, second.Confidence)
}

func TestInferRegionsAIEntryExpires(t *testing.T) {
	e := newEnv(t)
	e.ai.enabled = true
	e.ai.resp = &ai.Response{Countries: []string{"KH"}, Confidence: models.ConfidenceMedium}
	ctx := context.Background()
	q := models.Query{Era: "Khmerish golden period", StartYear: 900, EndYear: 1200}

	_, err := e.svc.InferRegions(ctx, q)
	require.NoError(t, err)
	require.Equal(t, 1, e.ai.calls)

	e.now = e.now.Add(AIEntryTTL + time.Hour)

	result, err := e.svc.InferRegions(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, 2, e.ai.calls, "stale entry must be re-resolved")
	assert.Equal(t, models.SourceAI, result.Source)

	var evicted bool
	for _, event := range e.sink.Events() {
		if event.Action == audit.ActionCacheEvicted {
			evicted = true
		}
	}
	assert.True(t, evicted)
}

func TestInferRegionsNonAIEntriesNeverExpire(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	q := models.Query{Era: "Viking Age", StartYear: 800, EndYear: 850}

	_, err := e.svc.InferRegions(ctx, q)
	require.NoError(t, err)

	e.now = e.now.Add(10 * 365 * 24 * time.Hour)

	result, err := e.svc.InferRegions(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, models.SourceTemporal, result.Source)

	_, err = e.cache.Get(ctx, store.InferenceKey("Viking Age", 800, 850))
	assert.NoError(t, err, "temporal entry must survive")
}

func TestInferRegionsCacheFailuresAreSoft(t *testing.T) {
	svc, err := New(failingCache{}, store.NewMemoryCustomStore(),
		WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)

	result, err := svc.InferRegions(context.Background(), models.Query{
		Era: "Viking Age", StartYear: 800, EndYear: 850,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SourceTemporal, result.Source)
	assert.Equal(t, []string{"DK", "GB", "IE", "NO", "SE"}, result.Countries)
}

func TestResolvePeriod(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.ResolvePeriod(ctx, "")
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))

	result, err := e.svc.ResolvePeriod(ctx, "Viking Age")
	require.NoError(t, err)
	assert.Equal(t, []string{"DK", "GB", "IE", "NO", "SE"}, result.Countries)
	assert.Equal(t, models.SourceHardcoded, result.Source)

	entry, err := e.cache.Get(ctx, store.PeriodKey("Viking Age"))
	require.NoError(t, err)
	assert.Equal(t, result.Countries, entry.Result.Countries)

	literal, err := e.svc.ResolvePeriod(ctx, "de")
	require.NoError(t, err)
	assert.Equal(t, []string{"DE"}, literal.Countries)

	unknown, err := e.svc.ResolvePeriod(ctx, "Totally Unknown Period")
	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, unknown.Source)
	assert.Empty(t, unknown.Countries)
}

func TestResolvePeriodUsesTemporalDefault(t *testing.T) {
	e := newEnv(t)

	// Aztec Empire has no static-table entry, so the year-less lookup lands on
	// the temporal tier. It must serve the peak-period default, never a slice.
	result, err := e.svc.ResolvePeriod(context.Background(), "Aztec Empire")
	require.NoError(t, err)
	assert.Equal(t, []string{"MX"}, result.Countries)
	assert.Equal(t, models.SourceTemporal, result.Source)
	assert.Equal(t, models.ConfidenceMedium, result.Confidence)
	assert.Contains(t, result.Reasoning, temporal.DefaultNote)
}

func TestSetMappingValidatesAndInvalidates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	err := e.svc.SetMapping(ctx, "", store.CustomMapping{Countries: []string{"IT"}}, "admin")
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))

	err = e.svc.SetMapping(ctx, "Edo Period", store.CustomMapping{Countries: []string{"zz?", "1"}}, "admin")
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))

	// Seed a stale period-cache entry, then overwrite the mapping.
	_, err = e.svc.ResolvePeriod(ctx, "Viking Age")
	require.NoError(t, err)

	err = e.svc.SetMapping(ctx, "Viking Age", store.CustomMapping{
		Countries: []string{"no", "IS"},
		Timeframe: "793-1066",
	}, "admin")
	require.NoError(t, err)

	_, err = e.cache.Get(ctx, store.PeriodKey("Viking Age"))
	assert.ErrorIs(t, err, sentinel.ErrNotFound, "period cache entry must be invalidated")

	mapping, err := e.svc.GetMapping(ctx, "viking age")
	require.NoError(t, err)
	assert.Equal(t, []string{"IS", "NO"}, mapping.Countries)

	events := e.sink.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, audit.ActionMappingSet, events[len(events)-1].Action)
}

func TestDeleteAndClearMappings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.svc.SetMapping(ctx, "Edo Period", store.CustomMapping{Countries: []string{"JP"}}, "admin"))

	require.NoError(t, e.svc.DeleteMapping(ctx, "edo period", "admin"))
	_, err := e.svc.GetMapping(ctx, "Edo Period")
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))

	require.NoError(t, e.svc.SetMapping(ctx, "A Period", store.CustomMapping{Countries: []string{"FR"}}, "admin"))
	require.NoError(t, e.svc.ClearMappings(ctx, "admin"))

	all, err := e.svc.ListMappings(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClearCacheAndStats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.InferRegions(ctx, models.Query{Era: "Viking Age", StartYear: 800, EndYear: 850})
	require.NoError(t, err)

	stats, err := e.svc.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)

	require.NoError(t, e.svc.ClearCache(ctx, "admin"))

	stats, err = e.svc.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)

	require.NoError(t, e.svc.EvictCacheEntry(ctx, "infer:viking_age:800:850", "admin"))
	err = e.svc.EvictCacheEntry(ctx, "  ", "admin")
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
}
