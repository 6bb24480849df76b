package middleware

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"commentlens/internal/handler/http/respond"
	"commentlens/internal/observability/logging"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
	Name: "http_rate_limit_rejections_total",
	Help: "Requests rejected by the per-IP rate limiter",
})

// RateLimiter is a per-IP sliding window limiter.
type RateLimiter struct {
	limit       int
	window      time.Duration
	ipExtractor IPExtractor

	mu       sync.Mutex
	requests map[string][]time.Time
	now      func() time.Time
}

// NewRateLimiter allows limit requests per IP within window.
func NewRateLimiter(limit int, window time.Duration, ipExtractor IPExtractor) *RateLimiter {
	return &RateLimiter{
		limit:       limit,
		window:      window,
		ipExtractor: ipExtractor,
		requests:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.ipExtractor.ExtractIP(r)
		if err != nil {
			logging.FromContext(r.Context()).Warn("rate limiter: IP extraction failed, using RemoteAddr fallback",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr))
			ip = r.RemoteAddr
		}

		allowed, retryAfter := rl.allow(ip)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		if !allowed {
			rateLimitRejections.Inc()
			logging.FromContext(r.Context()).Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path),
				slog.Int("limit", rl.limit),
				slog.Duration("window", rl.window))
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			respond.Error(r.Context(), w, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow records the request when it fits the window. Otherwise it reports how
// long until the oldest request in the window expires.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := pruned(rl.requests[ip], cutoff)
	if len(valid) >= rl.limit {
		rl.requests[ip] = valid
		return false, valid[0].Sub(cutoff)
	}
	rl.requests[ip] = append(valid, now)
	return true, 0
}

// CleanupExpired drops expired timestamps and forgets idle IPs.
// It returns the number of IPs still tracked.
func (rl *RateLimiter) CleanupExpired() int {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, timestamps := range rl.requests {
		if valid := pruned(timestamps, cutoff); len(valid) == 0 {
			delete(rl.requests, ip)
		} else {
			rl.requests[ip] = valid
		}
	}
	return len(rl.requests)
}

func pruned(timestamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(timestamps) && !timestamps[i].After(cutoff) {
		i++
	}
	return timestamps[i:]
}
