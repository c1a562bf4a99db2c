package crawl

import (
	"context"
	"net/url"
	"sync"

	"github.com/apiguard/apiguard"
	"golang.org/x/time/rate"
)

var _ apiguard.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter enforces per-domain request pacing with token buckets.
// Each domain gets its own limiter, so crawls of different hosts do not
// slow each other down.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// per domain. Bursting is disabled: each domain's bucket holds one token.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// WaitURL is like Wait but derives the domain from a full URL.
func (d *DomainLimiter) WaitURL(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return apiguard.Errorf(apiguard.EINVALID, "invalid URL %q", rawURL)
	}
	return d.Wait(ctx, u.Host)
}
