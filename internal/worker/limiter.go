package worker

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter rate-limits outbound provider calls per API host, so a fast
// batch cannot hammer the contracts or CRM endpoints.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with a shared default rate.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the host behind rawURL has rate-limit clearance.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := extractHost(rawURL)
	if err != nil {
		return err
	}
	return l.getLimiter(host).Wait(ctx)
}

// Allow reports whether a request may proceed immediately.
func (l *Limiter) Allow(rawURL string) bool {
	host, err := extractHost(rawURL)
	if err != nil {
		return false
	}
	return l.getLimiter(host).Allow()
}

// SetHostRate overrides the rate for one API host.
func (l *Limiter) SetHostRate(host string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[host] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *Limiter) getLimiter(host string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[host]
	l.mu.RUnlock()
	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, exists := l.limiters[host]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[host] = limiter
	return limiter
}

func extractHost(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
