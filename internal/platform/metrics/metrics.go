package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Resolutions     *prometheus.CounterVec
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	AILookupSeconds prometheus.Histogram
	RateLimited     prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return newWith(prometheus.DefaultRegisterer)
}

// NewForTest registers metrics on a throwaway registry so parallel tests do
// not collide on the default registerer.
func NewForTest() *Metrics {
	return newWith(prometheus.NewRegistry())
}

func newWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eramap_resolutions_total",
			Help: "Region resolutions by originating tier.",
		}, []string{"source"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "eramap_cache_hits_total",
			Help: "Inference cache hits.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "eramap_cache_misses_total",
			Help: "Inference cache misses, including TTL evictions.",
		}),
		AILookupSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eramap_ai_lookup_duration_seconds",
			Help:    "Latency of remote AI region lookups.",
			Buckets: prometheus.DefBuckets,
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "eramap_lookup_rate_limited_total",
			Help: "Lookup requests rejected by the rate limiter.",
		}),
	}
}

// ObserveResolution records a completed resolution by source tier.
func (m *Metrics) ObserveResolution(source string) {
	m.Resolutions.WithLabelValues(source).Inc()
}
