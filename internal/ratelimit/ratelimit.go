package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"

	"github.com/amishk599/jobfeed/internal/model"
)

// HostLimiter paces requests per hostname. Every host gets its own token
// bucket with the same rate and burst.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

// NewHostLimiter creates a limiter allowing reqPerSec requests per second to
// each host. reqPerSec <= 0 disables pacing.
func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	r := rate.Inf
	if reqPerSec > 0 {
		r = rate.Limit(reqPerSec)
	}
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

func (h *HostLimiter) limiterFor(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	if lim, ok := h.limiters[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(h.r, h.burst)
	h.limiters[host] = lim
	return lim
}

// Wait blocks until a request to host is allowed.
// Returns an error if the context is cancelled while waiting.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	if err := h.limiterFor(host).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", host, err)
	}
	return nil
}

// WaitURL is Wait keyed by the host of raw. Unparseable URLs share one bucket.
func (h *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return h.Wait(ctx, "_")
	}
	return h.Wait(ctx, u.Host)
}

// RateLimitedFetcher is a decorator that waits on the host limiter before
// delegating to the wrapped PartitionFetcher.
type RateLimitedFetcher struct {
	inner   model.PartitionFetcher
	limiter *HostLimiter
	host    string // upstream host this fetcher targets
}

// NewRateLimitedFetcher wraps a PartitionFetcher with host-level pacing.
// All fetchers and uploaders targeting the same host should share the limiter.
func NewRateLimitedFetcher(inner model.PartitionFetcher, limiter *HostLimiter, baseURL string) *RateLimitedFetcher {
	host := "_"
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return &RateLimitedFetcher{
		inner:   inner,
		limiter: limiter,
		host:    host,
	}
}

// FetchPartition waits for the limiter to allow a request, then delegates.
func (f *RateLimitedFetcher) FetchPartition(ctx context.Context, partition string) ([]model.JobPosting, error) {
	if err := f.limiter.Wait(ctx, f.host); err != nil {
		return nil, err
	}
	return f.inner.FetchPartition(ctx, partition)
}
