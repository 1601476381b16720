package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/handlers"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an unused client limiter is kept
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client address
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rate     rate.Limit
	burst    int
	proxies  *handlers.TrustedProxies
	retry    time.Duration
	logger   arbor.ILogger
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows requestsPerMinute per client with the given burst.
// Clients are keyed by peer address unless the peer is one of proxies.
func NewRateLimiter(requestsPerMinute, burst int, proxies *handlers.TrustedProxies, logger arbor.ILogger) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 20
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
		proxies:  proxies,
		retry:    time.Minute / time.Duration(requestsPerMinute),
		logger:   logger,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// getLimiter returns a rate limiter for the given client key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[key]
	if !exists {
		entry = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = rl.now()

	return entry.limiter
}

// Handler returns the rate limiting middleware handler
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := handlers.ClientIP(r, rl.proxies)

		if !rl.getLimiter(key).Allow() {
			rl.logger.Warn().
				Str("client", key).
				Str("path", r.URL.Path).
				Str("method", r.Method).
				Msg("Rate limit exceeded")

			seconds := int(rl.retry.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			handlers.WriteError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Cleanup removes limiters idle for longer than limiterIdleTTL
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-limiterIdleTTL)
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// StartCleanup periodically removes idle limiters until Stop is called
func (rl *RateLimiter) StartCleanup(interval time.Duration) {
	common.SafeGo(rl.logger, "rateLimiterCleanup", func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-rl.stop:
				return
			}
		}
	})
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}
