package middleware

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/cricket-tournament-service/internal/http/requestutil"
	"github.com/preston-bernstein/cricket-tournament-service/internal/metrics"
)

type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    time.Duration
	burst    int
}

func newIPLimiter(requestsPerWindow int, window time.Duration) *ipLimiter {
	requestsPerWindow = max(requestsPerWindow, 1)
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    window / time.Duration(requestsPerWindow),
		burst:    max(requestsPerWindow/2, 1),
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok := l.limiters[ip]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Every(l.every), l.burst)
	l.limiters[ip] = limiter
	return limiter
}

// retryAfter is the wait in whole seconds until one token is available again.
func (l *ipLimiter) retryAfter() int {
	return max(int(math.Ceil(l.every.Seconds())), 1)
}

// RateLimit throttles requests per client IP, answering 429 with Retry-After when exceeded.
func RateLimit(requestsPerWindow int, window time.Duration, recorder *metrics.Recorder) func(http.Handler) http.Handler {
	limiter := newIPLimiter(requestsPerWindow, window)
	retry := strconv.Itoa(limiter.retryAfter())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.get(requestutil.ClientIP(r)).Allow() {
				next.ServeHTTP(w, r)
				return
			}

			recorder.RecordRateLimited(normalizePath(r.URL.Path))
			body := map[string]string{"error": "too many requests"}
			if reqID := RequestIDFromContext(r.Context()); reqID != "" {
				body["requestId"] = reqID
			}
			w.Header().Set("Retry-After", retry)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(body)
		})
	}
}
