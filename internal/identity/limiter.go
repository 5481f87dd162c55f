package identity

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

// LimiterConfig configures login throttling per client.
type LimiterConfig struct {
	// Rate is the sustained number of attempts allowed per second.
	Rate float64
	// Burst is the number of attempts allowed at once.
	Burst int
	// IdleTTL is how long an idle client's limiter is kept.
	IdleTTL time.Duration
}

// Limiter throttles login attempts per client key, usually the remote IP.
type Limiter struct {
	limit    rate.Limit
	burst    int
	limiters *ttlcache.Cache[string, *rate.Limiter]
}

// NewLimiter creates a limiter and starts its expiry loop. Call Close to stop it.
// A non-positive Rate disables throttling.
func NewLimiter(cfg LimiterConfig) *Limiter {
	limit := rate.Limit(cfg.Rate)
	if cfg.Rate <= 0 {
		limit = rate.Inf
	}
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	cache := ttlcache.New(ttlcache.WithTTL[string, *rate.Limiter](ttl))
	go cache.Start()

	return &Limiter{
		limit:    limit,
		burst:    max(cfg.Burst, 1),
		limiters: cache,
	}
}

// Allow reports whether the client may attempt a login now.
func (l *Limiter) Allow(key string) bool {
	item, _ := l.limiters.GetOrSet(key, rate.NewLimiter(l.limit, l.burst))
	return item.Value().Allow()
}

// Close stops the expiry loop.
func (l *Limiter) Close() {
	l.limiters.Stop()
}
