package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures per-client token bucket limiting.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
	// MaxClients bounds the number of tracked limiters. The least recently
	// seen client is evicted first.
	MaxClients int `yaml:"max_clients" mapstructure:"max_clients"`
	// KeyFunc extracts the limit key from a request. Defaults to client IP.
	KeyFunc func(*http.Request) string `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills unset limits.
func (c *RateLimitConfig) ApplyDefaults() {
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 10
	}
	if c.Burst <= 0 {
		c.Burst = 20
	}
	if c.MaxClients <= 0 {
		c.MaxClients = 4096
	}
}

// RateLimit rejects requests over the per-key rate with 429. A disabled
// config makes it a pass-through.
func RateLimit(cfg RateLimitConfig) Middleware {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}
		cfg.ApplyDefaults()
		keyFn := cfg.KeyFunc
		if keyFn == nil {
			keyFn = ClientIP
		}
		limiters := newLimiterSet(cfg)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.get(keyFn(r)).Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type limiterSet struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *rate.Limiter]
	limit rate.Limit
	burst int
}

func newLimiterSet(cfg RateLimitConfig) *limiterSet {
	// Size is validated positive by ApplyDefaults, so New cannot fail.
	cache, _ := lru.New[string, *rate.Limiter](cfg.MaxClients)
	return &limiterSet{cache: cache, limit: rate.Limit(cfg.RequestsPerSecond), burst: cfg.Burst}
}

func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.cache.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(s.limit, s.burst)
	s.cache.Add(key, l)
	return l
}

// ClientIP returns the first X-Forwarded-For hop, or the remote host.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
