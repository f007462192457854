package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/postnav/internal/logger"
	"github.com/MrSnakeDoc/postnav/internal/utils"
)

// RateLimitConfig configures a per-client token bucket. Burst <= 0 disables
// limiting. Each RateLimit call owns its buckets, so page loads and clicks
// mounted with separate configs never drain each other.
type RateLimitConfig struct {
	Scope      string // "page", "click"... shows up in logs
	Burst      int
	PerMinute  int
	MaxClients int           // sweep early once this many clients are tracked
	IdleTTL    time.Duration // forget clients idle for this long
	TrustProxy bool          // resolve IP from proxy headers when true
	Logger     logger.Logger

	now func() time.Time
}

type tokenBucket struct {
	tokens  float64
	updated time.Time
}

func (b *tokenBucket) refill(now time.Time, capacity, perSecond float64) {
	if elapsed := now.Sub(b.updated).Seconds(); elapsed > 0 {
		b.tokens = math.Min(capacity, b.tokens+elapsed*perSecond)
		b.updated = now
	}
}

type decision struct {
	allowed    bool
	remaining  int
	retryAfter int // seconds
}

type limiter struct {
	cfg       RateLimitConfig
	capacity  float64
	perSecond float64

	mu        sync.Mutex
	clients   map[string]*tokenBucket
	lastSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	if cfg.PerMinute < 1 {
		cfg.PerMinute = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	return &limiter{
		cfg:       cfg,
		capacity:  float64(cfg.Burst),
		perSecond: float64(cfg.PerMinute) / 60.0,
		clients:   make(map[string]*tokenBucket, 256),
		lastSweep: cfg.now(),
	}
}

func (l *limiter) take(client string) decision {
	now := l.cfg.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.cfg.IdleTTL ||
		(l.cfg.MaxClients > 0 && len(l.clients) >= l.cfg.MaxClients) {
		l.sweep(now)
	}

	b, ok := l.clients[client]
	if !ok {
		b = &tokenBucket{tokens: l.capacity, updated: now}
		l.clients[client] = b
	}
	b.refill(now, l.capacity, l.perSecond)

	if b.tokens < 1 {
		wait := int(math.Ceil((1 - b.tokens) / l.perSecond))
		return decision{retryAfter: max(wait, 1)}
	}
	b.tokens--
	return decision{allowed: true, remaining: int(b.tokens)}
}

// sweep drops clients idle long enough for their bucket to be worthless.
func (l *limiter) sweep(now time.Time) {
	for client, b := range l.clients {
		if now.Sub(b.updated) > l.cfg.IdleTTL {
			delete(l.clients, client)
		}
	}
	l.lastSweep = now
}

// RateLimit rejects requests with 429 once a client's bucket for this scope
// is empty.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Burst <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	l := newLimiter(cfg)
	limit := strconv.Itoa(cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := utils.ClientIP(r, cfg.TrustProxy)
			d := l.take(client)

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))

			if !d.allowed {
				cfg.Logger.Debug("rate limited",
					logger.String("scope", cfg.Scope),
					logger.String("ip", client),
					logger.String("path", r.URL.Path),
					logger.Int("retry_after", d.retryAfter))
				h.Set("Retry-After", strconv.Itoa(d.retryAfter))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
