// Package models defines the region-inference domain types shared by every
// resolver tier.
package models

import (
	"sort"
	"time"

	"eramap/pkg/countries"
)

// Confidence is a coarse trust level reflecting how directly the source data
// determined the answer.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Coerce maps arbitrary remote confidence strings onto the known levels.
// Anything unrecognized degrades to low rather than failing the response.
func Coerce(s string) Confidence {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMedium:
		return Confidence(s)
	default:
		return ConfidenceLow
	}
}

// Source identifies the resolver tier that produced a result.
type Source string

const (
	SourceTemporal      Source = "temporal"
	SourceHardcoded     Source = "hardcoded"
	SourceCustom        Source = "custom"
	SourceTitleAnalysis Source = "title_analysis"
	SourceAI            Source = "ai"
	SourceFallback      Source = "fallback"
)

// Cacheable reports whether results from this source may be persisted.
// Fallback results are never cached so a failed lookup retries next call.
func (s Source) Cacheable() bool {
	return s != SourceFallback
}

// Query is the resolver input. Negative years are BC (-27 is 27 BC), so all
// comparisons happen on the signed integer line.
type Query struct {
	Era         string
	StartYear   int
	EndYear     int
	Title       string
	Description string
}

// Span is the width of the queried year range in years.
func (q Query) Span() int {
	span := q.EndYear - q.StartYear
	if span < 0 {
		return -span
	}
	return span
}

// RegionResult is the immutable outcome of a resolution. Countries carries
// set semantics: sorted, deduplicated, uppercase ISO 3166-1 alpha-2 codes.
type RegionResult struct {
	Countries   []string   `json:"countries"`
	Confidence  Confidence `json:"confidence"`
	Reasoning   string     `json:"reasoning"`
	Source      Source     `json:"source"`
	Suggestions []string   `json:"suggestions,omitempty"`
	ResolvedAt  time.Time  `json:"resolvedAt"`
}

// NormalizeSet uppercases, shape-checks, deduplicates, and sorts country
// codes so equal sets compare equal regardless of input order.
func NormalizeSet(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = countries.Normalize(c)
		if !countries.IsCodeShaped(c) {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
