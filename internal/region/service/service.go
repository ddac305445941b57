// Package service sequences the resolver tiers: cache, temporal, custom,
// static, text analysis with AI refinement, AI only, fallback. Each tier that
// yields countries terminates the pipeline; everything except fallback writes
// through to the cache.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"eramap/internal/audit"
	"eramap/internal/platform/metrics"
	"eramap/internal/region/ai"
	"eramap/internal/region/models"
	"eramap/internal/region/static"
	"eramap/internal/region/store"
	"eramap/internal/region/temporal"
	"eramap/internal/region/textscan"
	dErrors "eramap/pkg/domainerrors"
)

// AIEntryTTL bounds how long an AI-sourced cache entry is served before it is
// evicted on read. Entries from every other source never expire.
const AIEntryTTL = 30 * 24 * time.Hour

// AILookup is the slice of the remote client the orchestrator needs.
type AILookup interface {
	Enabled() bool
	FetchRegions(ctx context.Context, period string, startYear, endYear int, title string) (*ai.Response, error)
}

type Service struct {
	cache   store.CacheStore
	custom  store.CustomStore
	ai      AILookup
	metrics *metrics.Metrics
	audit   *audit.Publisher
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithAI(client AILookup) Option {
	return func(s *Service) { s.ai = client }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAudit(publisher *audit.Publisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock substitutes the time source, primarily for TTL tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(cache store.CacheStore, custom store.CustomStore, opts ...Option) (*Service, error) {
	if cache == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	if custom == nil {
		return nil, fmt.Errorf("custom store is required")
	}

	svc := &Service{
		cache:  cache,
		custom: custom,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc, nil
}

// InferRegions resolves a period label and year range to modern country
// codes. The only returned error is an input error for a blank era; every
// other failure degrades to a lower-confidence result.
func (s *Service) InferRegions(ctx context.Context, q models.Query) (models.RegionResult, error) {
	era := strings.TrimSpace(q.Era)
	if era == "" {
		return models.RegionResult{}, dErrors.New(dErrors.CodeBadRequest, "era is required")
	}
	q.Era = era

	ctx, span := otel.Tracer("eramap/service").Start(ctx, "service.InferRegions")
	span.SetAttributes(
		attribute.String("era", era),
		attribute.Int("start_year", q.StartYear),
		attribute.Int("end_year", q.EndYear),
	)
	defer span.End()

	key := store.InferenceKey(era, q.StartYear, q.EndYear)
	if cached, ok := s.readCache(ctx, key); ok {
		return cached, nil
	}

	if match, ok := temporal.Resolve(era, q.StartYear, q.EndYear); ok && len(match.Countries) > 0 {
		confidence := models.ConfidenceHigh
		if strings.Contains(match.Note, "Default") {
			confidence = models.ConfidenceMedium
		}
		return s.finish(ctx, key, models.RegionResult{
			Countries:  match.Countries,
			Confidence: confidence,
			Reasoning:  fmt.Sprintf("%s: %s", era, match.Note),
			Source:     models.SourceTemporal,
		}), nil
	}

	if mapping, err := s.custom.Get(ctx, era); err == nil && len(mapping.Countries) > 0 {
		reasoning := mapping.Description
		if reasoning == "" {
			reasoning = fmt.Sprintf("Custom mapping for %q", era)
		}
		return s.finish(ctx, key, models.RegionResult{
			Countries:  models.NormalizeSet(mapping.Countries),
			Confidence: models.ConfidenceMedium,
			Reasoning:  reasoning,
			Source:     models.SourceCustom,
		}), nil
	}

	if code, ok := static.LiteralCode(era); ok {
		return s.finish(ctx, key, models.RegionResult{
			Countries:  []string{code},
			Confidence: models.ConfidenceMedium,
			Reasoning:  fmt.Sprintf("Interpreted %q as a literal country code", era),
			Source:     models.SourceHardcoded,
		}), nil
	}

	if codes := static.Lookup(era); len(codes) > 0 {
		return s.finish(ctx, key, models.RegionResult{
			Countries:  models.NormalizeSet(codes),
			Confidence: models.ConfidenceMedium,
			Reasoning:  fmt.Sprintf("Known mapping for %q", era),
			Source:     models.SourceHardcoded,
		}), nil
	}

	text := strings.TrimSpace(strings.Join([]string{era, q.Title, q.Description}, " "))
	hints := textscan.Extract(text)

	if len(hints) > 0 {
		result := models.RegionResult{
			Countries:  hints,
			Confidence: textscan.Escalate(len(hints), q.Span()),
			Reasoning:  fmt.Sprintf("Countries inferred from historical references in %q", era),
			Source:     models.SourceTitleAnalysis,
		}
		if resp := s.lookupAI(ctx, q); resp != nil {
			result = models.RegionResult{
				Countries:   resp.Countries,
				Confidence:  resp.Confidence,
				Reasoning:   resp.Reasoning,
				Source:      models.SourceAI,
				Suggestions: hints,
			}
		}
		return s.finish(ctx, key, result), nil
	}

	if resp := s.lookupAI(ctx, q); resp != nil {
		return s.finish(ctx, key, models.RegionResult{
			Countries:  resp.Countries,
			Confidence: resp.Confidence,
			Reasoning:  resp.Reasoning,
			Source:     models.SourceAI,
		}), nil
	}

	fallback := models.RegionResult{
		Countries:  []string{},
		Confidence: models.ConfidenceLow,
		Reasoning:  fmt.Sprintf("No region mapping found for %q between %d and %d", era, q.StartYear, q.EndYear),
		Source:     models.SourceFallback,
	}
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{
			Action:  audit.ActionFallbackServed,
			Subject: key,
			Detail:  fallback.Reasoning,
		})
	}
	return s.finish(ctx, key, fallback), nil
}

// ResolvePeriod resolves a bare period label without a year range, served
// from the per-period cache namespace. It walks custom, static, and the
// temporal default set, and falls back to an empty low-confidence result.
func (s *Service) ResolvePeriod(ctx context.Context, period string) (models.RegionResult, error) {
	period = strings.TrimSpace(period)
	if period == "" {
		return models.RegionResult{}, dErrors.New(dErrors.CodeBadRequest, "period is required")
	}

	key := store.PeriodKey(period)
	if cached, ok := s.readCache(ctx, key); ok {
		return cached, nil
	}

	if mapping, err := s.custom.Get(ctx, period); err == nil && len(mapping.Countries) > 0 {
		reasoning := mapping.Description
		if reasoning == "" {
			reasoning = fmt.Sprintf("Custom mapping for %q", period)
		}
		return s.finish(ctx, key, models.RegionResult{
			Countries:  models.NormalizeSet(mapping.Countries),
			Confidence: models.ConfidenceMedium,
			Reasoning:  reasoning,
			Source:     models.SourceCustom,
		}), nil
	}

	if code, ok := static.LiteralCode(period); ok {
		return s.finish(ctx, key, models.RegionResult{
			Countries:  []string{code},
			Confidence: models.ConfidenceMedium,
			Reasoning:  fmt.Sprintf("Interpreted %q as a literal country code", period),
			Source:     models.SourceHardcoded,
		}), nil
	}

	if codes := static.Lookup(period); len(codes) > 0 {
		return s.finish(ctx, key, models.RegionResult{
			Countries:  models.NormalizeSet(codes),
			Confidence: models.ConfidenceMedium,
			Reasoning:  fmt.Sprintf("Known mapping for %q", period),
			Source:     models.SourceHardcoded,
		}), nil
	}

	if match, ok := temporal.Default(period); ok && len(match.Countries) > 0 {
		return s.finish(ctx, key, models.RegionResult{
			Countries:  match.Countries,
			Confidence: models.ConfidenceMedium,
			Reasoning:  fmt.Sprintf("%s: %s", period, match.Note),
			Source:     models.SourceTemporal,
		}), nil
	}

	return s.finish(ctx, key, models.RegionResult{
		Countries:  []string{},
		Confidence: models.ConfidenceLow,
		Reasoning:  fmt.Sprintf("No region mapping found for %q", period),
		Source:     models.SourceFallback,
	}), nil
}

// readCache returns a usable cached result. Stale AI entries are evicted and
// reported as a miss; store errors also count as a miss.
func (s *Service) readCache(ctx context.Context, key string) (models.RegionResult, bool) {
	entry, err := s.cache.Get(ctx, key)
	if err != nil {
		s.miss()
		return models.RegionResult{}, false
	}

	if entry.Result.Source == models.SourceAI && s.now().Sub(entry.CachedAt) > AIEntryTTL {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to evict expired cache entry", "key", key, "error", err)
		}
		if s.audit != nil {
			s.audit.Emit(ctx, audit.Event{
				Action:  audit.ActionCacheEvicted,
				Subject: key,
				Detail:  "ai entry past ttl",
			})
		}
		s.miss()
		return models.RegionResult{}, false
	}

	if s.metrics != nil {
		s.metrics.CacheHits.Inc()
		s.metrics.ObserveResolution(string(entry.Result.Source))
	}
	return entry.Result, true
}

func (s *Service) miss() {
	if s.metrics != nil {
		s.metrics.CacheMisses.Inc()
	}
}

// lookupAI performs the remote call as a soft tier: disabled client, transport
// failure, or an empty country set all read as "no data".
func (s *Service) lookupAI(ctx context.Context, q models.Query) *ai.Response {
	if s.ai == nil || !s.ai.Enabled() {
		return nil
	}

	trace.SpanFromContext(ctx).AddEvent("ai lookup",
		trace.WithAttributes(attribute.String("era", q.Era)))

	start := time.Now()
	resp, err := s.ai.FetchRegions(ctx, q.Era, q.StartYear, q.EndYear, q.Title)
	if s.metrics != nil {
		s.metrics.AILookupSeconds.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.logger.Warn("ai lookup failed", "era", q.Era, "error", err)
		return nil
	}
	if resp == nil || len(resp.Countries) == 0 {
		return nil
	}
	return resp
}

// finish stamps the result, records it, and writes it through to the cache
// when its source allows. Write failures are logged and swallowed.
func (s *Service) finish(ctx context.Context, key string, result models.RegionResult) models.RegionResult {
	result.ResolvedAt = s.now().UTC()
	if s.metrics != nil {
		s.metrics.ObserveResolution(string(result.Source))
	}

	if result.Source.Cacheable() {
		entry := store.Entry{Result: result, CachedAt: s.now().UTC()}
		if err := s.cache.Set(ctx, key, entry); err != nil {
			s.logger.Warn("failed to write cache entry", "key", key, "error", err)
		}
	}
	return result
}

// ClearCache wipes both cache namespaces.
func (s *Service) ClearCache(ctx context.Context, actor string) error {
	if err := s.cache.Clear(ctx); err != nil {
		return dErrors.New(dErrors.CodeUnavailable, "cache clear failed")
	}
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{Action: audit.ActionCacheCleared, Actor: actor})
	}
	return nil
}

// EvictCacheEntry removes a single entry by its full key.
func (s *Service) EvictCacheEntry(ctx context.Context, key, actor string) error {
	if strings.TrimSpace(key) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "cache key is required")
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		return dErrors.New(dErrors.CodeUnavailable, "cache delete failed")
	}
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{Action: audit.ActionCacheEvicted, Subject: key, Actor: actor})
	}
	return nil
}

// CacheStats reports entry count, approximate size, and age bounds.
func (s *Service) CacheStats(ctx context.Context) (store.Stats, error) {
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return store.Stats{}, dErrors.New(dErrors.CodeUnavailable, "cache stats failed")
	}
	return stats, nil
}

// SetMapping creates or replaces a custom override and invalidates the
// period's cache entry so the next resolution sees it.
func (s *Service) SetMapping(ctx context.Context, period string, mapping store.CustomMapping, actor string) error {
	period = strings.TrimSpace(period)
	if period == "" {
		return dErrors.New(dErrors.CodeBadRequest, "period is required")
	}
	mapping.Countries = models.NormalizeSet(mapping.Countries)
	if len(mapping.Countries) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "at least one valid country code is required")
	}

	if err := s.custom.Set(ctx, period, mapping); err != nil {
		return dErrors.New(dErrors.CodeUnavailable, "custom mapping write failed")
	}
	if err := s.cache.Delete(ctx, store.PeriodKey(period)); err != nil {
		s.logger.Warn("failed to invalidate period cache", "period", period, "error", err)
	}
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{Action: audit.ActionMappingSet, Subject: period, Actor: actor})
	}
	return nil
}

// GetMapping returns the override for a period, case-insensitively.
func (s *Service) GetMapping(ctx context.Context, period string) (store.CustomMapping, error) {
	mapping, err := s.custom.Get(ctx, strings.TrimSpace(period))
	if err != nil {
		return store.CustomMapping{}, dErrors.Newf(dErrors.CodeNotFound, "no custom mapping for %q", period)
	}
	return mapping, nil
}

// ListMappings returns all overrides keyed by their display name.
func (s *Service) ListMappings(ctx context.Context) (map[string]store.CustomMapping, error) {
	all, err := s.custom.List(ctx)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "custom mapping list failed")
	}
	return all, nil
}

// DeleteMapping removes one override.
func (s *Service) DeleteMapping(ctx context.Context, period, actor string) error {
	period = strings.TrimSpace(period)
	if period == "" {
		return dErrors.New(dErrors.CodeBadRequest, "period is required")
	}
	if err := s.custom.Delete(ctx, period); err != nil {
		return dErrors.New(dErrors.CodeUnavailable, "custom mapping delete failed")
	}
	if err := s.cache.Delete(ctx, store.PeriodKey(period)); err != nil {
		s.logger.Warn("failed to invalidate period cache", "period", period, "error", err)
	}
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{Action: audit.ActionMappingDeleted, Subject: period, Actor: actor})
	}
	return nil
}

// ClearMappings removes every override.
func (s *Service) ClearMappings(ctx context.Context, actor string) error {
	if err := s.custom.Clear(ctx); err != nil {
		return dErrors.New(dErrors.CodeUnavailable, "custom mapping clear failed")
	}
	if s.audit != nil {
		s.audit.Emit(ctx, audit.Event{Action: audit.ActionMappingsCleared, Actor: actor})
	}
	return nil
}
