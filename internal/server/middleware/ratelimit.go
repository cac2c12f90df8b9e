package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RateLimiter caps requests per client per minute with a token bucket.
type RateLimiter struct {
	// TrustProxy honors X-Forwarded-For when deriving the client key.
	// Leave false unless the server sits behind a proxy that overwrites
	// the header; any direct client can forge it.
	TrustProxy bool

	mu      sync.RWMutex
	clients map[string]*bucket
	limit   int
	window  time.Duration
	logger  *zerolog.Logger
}

// bucket tracks the remaining tokens for one client.
type bucket struct {
	mu       sync.Mutex
	tokens   int
	refilled time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per minute per
// client and starts its eviction loop.
func NewRateLimiter(limit int, logger *zerolog.Logger) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*bucket),
		limit:   limit,
		window:  time.Minute,
		logger:  logger,
	}
	go rl.evict()
	return rl
}

// evict drops buckets that have been idle long enough to be full again.
func (rl *RateLimiter) evict() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for key, b := range rl.clients {
			b.mu.Lock()
			if time.Since(b.refilled) > 10*time.Minute {
				delete(rl.clients, key)
			}
			b.mu.Unlock()
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) getBucket(key string) *bucket {
	rl.mu.RLock()
	b, ok := rl.clients[key]
	rl.mu.RUnlock()
	if ok {
		return b
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if b, ok = rl.clients[key]; !ok {
		b = &bucket{tokens: rl.limit, refilled: time.Now()}
		rl.clients[key] = b
	}
	return b
}

// allow consumes one token for the client, refilling once per window.
func (rl *RateLimiter) allow(key string) bool {
	b := rl.getBucket(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	if time.Since(b.refilled) > rl.window {
		b.tokens = rl.limit
		b.refilled = time.Now()
	}
	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// clientKey derives the limiter key for a request. Behind a trusted proxy
// the last X-Forwarded-For hop is the one the proxy appended; otherwise
// the peer address is the only value the client cannot choose.
func (rl *RateLimiter) clientKey(r *http.Request) string {
	if rl.TrustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			hops := strings.Split(fwd, ",")
			return strings.TrimSpace(hops[len(hops)-1])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit rejects requests over the per-client budget with 429.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rl.clientKey(r)
			if !rl.allow(key) {
				rl.logger.Warn().
					Str("client", key).
					Str("path", r.URL.Path).
					Msg("Rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				if _, err := w.Write([]byte(`{"data":null,"error":{"code":"RATE_LIMITED","message":"Rate limit exceeded","details":"Too many requests. Please try again later."}}`)); err != nil {
					rl.logger.Error().Err(err).Msg("Failed to write rate limit response")
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
