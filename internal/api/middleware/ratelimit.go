package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/phrazzld/debitcard-api/internal/api/shared"
	"golang.org/x/time/rate"
)

const (
	defaultLimiterCacheSize = 10000
	defaultLimiterTTL       = 10 * time.Minute
)

// RateLimiter throttles requests per client IP with a token bucket.
// Buckets live in a size-bounded LRU and expire after a period of inactivity.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
}

// NewRateLimiter allows requestsPerMinute sustained requests per client,
// with bursts up to burst.
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	if requestsPerMinute <= 0 || burst <= 0 {
		panic("rate limiter requires positive rate and burst")
	}

	return &RateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
		limiters: expirable.NewLRU[string, *rate.Limiter](defaultLimiterCacheSize, nil, defaultLimiterTTL),
	}
}

// limiterFor returns the bucket for key, creating it on first use.
// Lookup and insert happen under one lock so concurrent first requests share a bucket.
func (l *RateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters.Get(key); ok {
		return limiter
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters.Add(key, limiter)
	return limiter
}

// Limit rejects requests over the client's budget with 429 and a Retry-After header.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := l.limiterFor(clientIP(r))

		reservation := limiter.Reserve()
		if delay := reservation.Delay(); !reservation.OK() || delay > 0 {
			reservation.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Too many requests", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of RemoteAddr. Forwarding headers are
// trusted only via chi's RealIP middleware, which rewrites RemoteAddr.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
