// Package fetch provides the caching HTTP GET client shared by the catalog
// matcher, the thumbnail prober and the cover processor. Identical requests
// within the cache TTL are served from memory, which both respects catalog
// rate limits and keeps batch runs from re-downloading cover bytes.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultCacheSize = 256
	defaultCacheTTL  = time.Hour
)

type response struct {
	status int
	body   []byte
}

// Options configures a Client. Zero values pick sane defaults; a zero
// RateLimit means no rate limiting.
type Options struct {
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	RateLimit rate.Limit
	Burst     int
	UserAgent string
}

// Client is a caching, optionally rate-limited HTTP GET client. Safe for
// concurrent use; the cache is bounded and entries expire after the TTL.
type Client struct {
	httpClient *http.Client
	cache      *lru.LRU[string, response]
	limiter    *rate.Limiter
	userAgent  string
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "tigertag/1.0"
	}
	c := &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		cache:      lru.NewLRU[string, response](opts.CacheSize, nil, opts.CacheTTL),
		userAgent:  opts.UserAgent,
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(opts.RateLimit, burst)
	}
	return c
}

// Get fetches a URL, serving repeats from the cache. Responses are cached
// whatever their status, so a 404 probe is not repeated either. Transport
// errors are not cached.
func (c *Client) Get(ctx context.Context, url string) ([]byte, int, error) {
	if r, ok := c.cache.Get(url); ok {
		return r.body, r.status, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	c.cache.Add(url, response{status: resp.StatusCode, body: body})
	return body, resp.StatusCode, nil
}

// Status probes a URL and returns only its status code. The body still
// lands in the cache, so a later Get of the same URL is free.
func (c *Client) Status(ctx context.Context, url string) (int, error) {
	_, status, err := c.Get(ctx, url)
	return status, err
}

// doWithRetry executes the request, retrying once on 429/503 honoring
// Retry-After.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
		resp.Body.Close()
		retryAfter := 2
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if parsed, err := strconv.Atoi(ra); err == nil {
				retryAfter = parsed
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(retryAfter) * time.Second):
		}
		return c.httpClient.Do(req.Clone(ctx))
	}
	return resp, nil
}
