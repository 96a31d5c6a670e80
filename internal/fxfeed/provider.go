package fxfeed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Clark-Hu/figure-collector/internal/currency"
)

const (
	failureRetry = time.Minute
	fetchTimeout = 30 * time.Second
)

// Provider caches the feed for a fixed interval and never fails: when the
// upstream is unreachable it serves the last good snapshot, or the fallback
// table when there is none.
type Provider struct {
	client Client
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	current   currency.DailyRates
	live      bool
	expiresAt time.Time
}

// NewProvider wraps client with a ttl cache.
func NewProvider(client Client, ttl time.Duration, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	p := &Provider{
		client: client,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
	p.current = currency.FallbackRates(p.today())
	return p
}

// Daily returns the cached snapshot, refreshing it when expired.
func (p *Provider) Daily(ctx context.Context) currency.DailyRates {
	p.mu.RLock()
	fresh := p.now().Before(p.expiresAt)
	snapshot := p.current
	p.mu.RUnlock()
	if fresh {
		return cloneRates(snapshot)
	}

	// The refresh is shared by every waiting caller, so one caller going
	// away must not turn into a feed failure for the rest.
	v, _, _ := p.group.Do("daily", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return p.refresh(fetchCtx), nil
	})
	return cloneRates(v.(currency.DailyRates))
}

// Rate implements currency.RateSource from the cached snapshot without
// touching the network.
func (p *Provider) Rate(c currency.Code) (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current.Rates.Rate(c)
}

func (p *Provider) refresh(ctx context.Context) currency.DailyRates {
	rates, err := p.client.Fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if err != nil {
		p.logger.Warn("fxfeed: fetch failed, serving cached rates", "error", err, "live", p.live)
		if !p.live {
			p.current = currency.FallbackRates(p.today())
		}
		p.expiresAt = now.Add(minDuration(p.ttl, failureRetry))
		return p.current
	}

	p.current = rates
	p.live = true
	p.expiresAt = now.Add(p.ttl)
	p.logger.Debug("fxfeed: rates refreshed", "asOf", rates.AsOf)
	return p.current
}

func (p *Provider) today() string {
	return p.now().UTC().Format("2006-01-02")
}

func cloneRates(r currency.DailyRates) currency.DailyRates {
	return currency.DailyRates{AsOf: r.AsOf, Rates: r.Rates.Clone()}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
