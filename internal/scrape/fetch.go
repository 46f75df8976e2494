// Package scrape implements the site-facing collaborator layer: a polite
// rate-limited fetcher and per-site extractors that turn listing pages into
// raw records for the pipeline. Nothing in here is part of the scoring core.
package scrape

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Dekamik/pidgeon/internal/config"
)

// Fetcher downloads and parses HTML pages, throttled per host.
type Fetcher struct {
	client    *http.Client
	userAgent string
	perSec    rate.Limit

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewFetcher creates a Fetcher from scrape configuration.
func NewFetcher(cfg config.ScrapeConfig) *Fetcher {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	perSec := rate.Limit(cfg.RequestsPerSec)
	if perSec <= 0 {
		perSec = rate.Limit(1)
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		perSec:    perSec,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Get fetches rawURL and parses it into a goquery document, waiting on the
// host's rate limiter first.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*goquery.Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: parse url")
	}

	if err := f.limiter(u.Host).Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fetch: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: build request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("fetch: %s returned status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: parse html")
	}

	zap.L().Debug("fetch: page fetched", zap.String("url", rawURL))
	return doc, nil
}

func (f *Fetcher) limiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.limiters[host]
	if !ok {
		l = rate.NewLimiter(f.perSec, 1)
		f.limiters[host] = l
	}
	return l
}
