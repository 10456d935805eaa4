// Package ratelimit provides per-client request rate limiting.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/Muhammadsajid2/nest-rest-api/pkg/server/router"
)

// RateLimiter decides whether a request for a key is within limits.
// Implementations must be safe for concurrent use.
type RateLimiter interface {
	Allow(key string) bool
}

// TokenBucketLimiter keeps an independent token bucket per key, allowing
// bursts up to the burst size while holding the long-run average to the
// configured rate.
type TokenBucketLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewTokenBucketLimiter creates a limiter allowing requestsPerSecond on
// average with bursts up to burst.
func NewTokenBucketLimiter(requestsPerSecond, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{rate: rate.Limit(requestsPerSecond), burst: burst}
}

// Allow reports whether a request for key is within limits.
func (l *TokenBucketLimiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

func (l *TokenBucketLimiter) getLimiter(key string) *rate.Limiter {
	if existing, ok := l.limiters.Load(key); ok {
		return existing.(*rate.Limiter)
	}
	created, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	return created.(*rate.Limiter)
}

// Config configures the rate-limiting middleware.
type Config struct {
	Enabled           bool
	RequestsPerSecond int
	Burst             int
}

// DefaultConfig returns disabled rate limiting with sane bounds once enabled.
func DefaultConfig() Config {
	return Config{Enabled: false, RequestsPerSecond: 100, Burst: 200}
}

// Middleware returns middleware limiting requests per client IP. Rejected
// requests receive HTTP 429.
func Middleware(cfg Config, limiter RateLimiter) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if !cfg.Enabled {
				return next(c)
			}
			if !limiter.Allow(clientIP(c.Request())) {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "rate_limit_exceeded",
					"message": "too many requests",
				})
			}
			return next(c)
		}
	}
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
