package fetch

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// OriginLimiter throttles outbound requests per origin host. Each host gets
// its own token bucket, so a slow marketplace never starves the others.
type OriginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewOriginLimiter builds a limiter granting rps requests per second with
// the given burst to every distinct origin.
func NewOriginLimiter(rps float64, burst int) *OriginLimiter {
	return &OriginLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Wait blocks until the origin of rawURL has a token available or the
// context is done.
func (l *OriginLimiter) Wait(ctx context.Context, rawURL string) error {
	return l.forOrigin(rawURL).Wait(ctx)
}

// Allow reports whether a request to the origin may proceed right now.
func (l *OriginLimiter) Allow(rawURL string) bool {
	return l.forOrigin(rawURL).Allow()
}

func (l *OriginLimiter) forOrigin(rawURL string) *rate.Limiter {
	origin := originKey(rawURL)

	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[origin]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[origin] = limiter
	}
	return limiter
}

// originKey reduces a URL to its lowercased host. Unparseable URLs share a
// single bucket rather than bypassing the limiter.
func originKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return strings.ToLower(u.Host)
}
