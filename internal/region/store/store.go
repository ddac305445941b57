// Package store persists resolved regions and user-authored mappings behind
// small interfaces so the orchestrator never touches a concrete backend.
//
// Two independent cache namespaces share one CacheStore: the per-parameter
// inference cache (era + year range) and the per-period region cache used by
// the lookup boundary. Key builders below own the prefixes.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eramap/internal/region/models"
)

const (
	inferencePrefix = "infer:"
	periodPrefix    = "region:"
)

// Entry wraps a cached result with its write time so TTL decisions happen at
// read time; the stores themselves never expire anything.
type Entry struct {
	Result   models.RegionResult `json:"result"`
	CachedAt time.Time           `json:"cachedAt"`
}

// Stats summarizes a cache namespace pair for the admin surface.
type Stats struct {
	Entries int       `json:"entries"`
	SizeKB  float64   `json:"sizeKb"`
	Oldest  time.Time `json:"oldest,omitzero"`
	Newest  time.Time `json:"newest,omitzero"`
}

// CacheStore is the persistent cache. Get returns sentinel.ErrNotFound on a
// miss; every error a caller sees should be treated as a miss or no-op.
type CacheStore interface {
	Get(ctx context.Context, key string) (Entry, error)
	Set(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (Stats, error)
}

// CustomMapping is a user-authored override. It always beats the static
// table when present.
type CustomMapping struct {
	Countries   []string `json:"countries"`
	Timeframe   string   `json:"timeframe,omitempty"`
	Description string   `json:"description,omitempty"`
}

// CustomStore holds custom mappings keyed by case-insensitive period name.
type CustomStore interface {
	Set(ctx context.Context, period string, mapping CustomMapping) error
	Get(ctx context.Context, period string) (CustomMapping, error)
	Delete(ctx context.Context, period string) error
	List(ctx context.Context) (map[string]CustomMapping, error)
	Clear(ctx context.Context) error
}

// InferenceKey builds the normalized per-parameter cache key.
func InferenceKey(era string, startYear, endYear int) string {
	return fmt.Sprintf("%s%s:%d:%d", inferencePrefix, normalize(era), startYear, endYear)
}

// PeriodKey builds the per-period cache key used by the lookup boundary.
func PeriodKey(period string) string {
	return periodPrefix + normalize(period)
}

// normalize lowercases and collapses every run of non-alphanumerics to a
// single underscore so "Roman  Empire!" and "roman empire" share an entry.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}

// NormalizePeriod is the custom-store key fold: case-insensitive, trimmed.
func NormalizePeriod(period string) string {
	return strings.ToLower(strings.TrimSpace(period))
}
