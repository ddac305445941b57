package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"eramap/internal/platform/middleware"
	dErrors "eramap/pkg/domainerrors"
	"eramap/pkg/platform/httputil"
)

// BucketStore is the limiter backend.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
	Reset(ctx context.Context, key string) error
}

// Middleware enforces a per-client sliding window on the routes it wraps.
// Client identity comes from middleware.ClientIP. A failing store fails open:
// losing rate limiting is better than losing the endpoint.
type Middleware struct {
	store   BucketStore
	limit   int
	window  time.Duration
	logger  *slog.Logger
	onLimit func()
}

type Option func(*Middleware)

// WithOnLimit installs a hook invoked on every rejected request (metrics).
func WithOnLimit(fn func()) Option {
	return func(m *Middleware) { m.onLimit = fn }
}

func New(store BucketStore, limit int, window time.Duration, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{store: store, limit: limit, window: window, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Middleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := middleware.GetClientIP(ctx)

		result, err := m.store.Allow(ctx, ip, m.limit, m.window)
		if err != nil {
			m.logger.ErrorContext(ctx, "rate limit check failed", "error", err.Error())
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			if m.onLimit != nil {
				m.onLimit()
			}
			w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfterSeconds(m.window)))
			httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "rate limit exceeded, retry later"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
