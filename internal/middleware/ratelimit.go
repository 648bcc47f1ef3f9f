package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/questionconnection/backend/internal/auth"
	"github.com/questionconnection/backend/internal/cache"
)

// SubjectLimiter is the shared rate limit backend.
type SubjectLimiter interface {
	CheckSubjectRateLimit(ctx context.Context, subject string, ratePerMinute, burst int) (*cache.RateLimitResult, error)
}

// RateLimitConfig holds configuration for rate limiting middleware.
type RateLimitConfig struct {
	Logger        *slog.Logger
	Limiter       SubjectLimiter
	Enabled       bool
	RatePerMinute int
	Burst         int
}

// RateLimit limits API requests per authenticated user. It must run after
// Auth. When the shared limiter is unavailable, a per-process token bucket
// with the same rate takes over.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	local := NewLocalLimiter(float64(cfg.RatePerMinute)/60.0, cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled || cfg.RatePerMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			subject := auth.SubjectFromContext(r.Context())
			if subject == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := cfg.Limiter.CheckSubjectRateLimit(r.Context(), subject, cfg.RatePerMinute, cfg.Burst)
			if err != nil {
				cfg.Logger.Warn("shared rate limiter unavailable, using local limiter",
					slog.String("error", err.Error()),
					slog.String("user_id", subject),
				)
				result = local.Check(subject)
			}

			setRateLimitHeaders(w, cfg.RatePerMinute, result.Remaining, result.ResetAt)

			if !result.Allowed {
				cfg.Logger.Warn("rate limit exceeded",
					slog.String("user_id", subject),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Int64("retry_after_seconds", int64(result.RetryAfter.Seconds())),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				retryAfter := int(result.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED",
					fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retryAfter))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setRateLimitHeaders sets standard rate limit response headers.
func setRateLimitHeaders(w http.ResponseWriter, limit int, remaining int64, resetAt time.Time) {
	if limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
	}
}

// LocalLimiter keeps one token bucket per key in process memory.
type LocalLimiter struct {
	mu           sync.Mutex
	entries      map[string]*localEntry
	limit        rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	lastCleanup  time.Time
	now          func() time.Time
}

type localEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter creates a LocalLimiter refilling ratePerSecond tokens up to burst.
func NewLocalLimiter(ratePerSecond float64, burst int) *LocalLimiter {
	if burst < 1 {
		burst = 1
	}
	return &LocalLimiter{
		entries:      make(map[string]*localEntry),
		limit:        rate.Limit(ratePerSecond),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
}

// Check consumes one token for key.
func (l *LocalLimiter) Check(key string) *cache.RateLimitResult {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastCleanup) >= l.cleanupEvery {
		l.cleanupLocked(now)
	}
	ent, ok := l.entries[key]
	if !ok {
		ent = &localEntry{lim: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = ent
	}
	ent.lastSeen = now
	l.mu.Unlock()

	res := ent.lim.ReserveN(now, 1)
	delay := res.DelayFrom(now)
	if delay > 0 {
		res.CancelAt(now)
		return &cache.RateLimitResult{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    now.Add(delay),
			RetryAfter: delay,
		}
	}

	return &cache.RateLimitResult{
		Allowed:   true,
		Remaining: int64(ent.lim.TokensAt(now)),
		ResetAt:   now.Add(time.Minute),
	}
}

// Cleanup drops buckets idle for longer than the idle TTL. Check also sweeps
// periodically.
func (l *LocalLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cleanupLocked(l.now())
}

func (l *LocalLimiter) cleanupLocked(now time.Time) {
	l.lastCleanup = now
	cutoff := now.Add(-l.idleTTL)
	for k, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, k)
		}
	}
}

// Len reports the number of tracked keys.
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
