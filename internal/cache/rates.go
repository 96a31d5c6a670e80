package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/Clark-Hu/figure-collector/internal/currency"
	"github.com/Clark-Hu/figure-collector/internal/fxfeed"
)

// RateAPI is the subset of apiclient.Client used by RateStore.
type RateAPI interface {
	FX(ctx context.Context) (currency.DailyRates, error)
}

// RateStore caches the server's /api/fx answer for a ttl. It implements
// currency.RateSource and falls back to currency.Fallback when the server
// cannot be reached.
type RateStore struct {
	*fxfeed.Provider
}

func NewRateStore(api RateAPI, ttl time.Duration, logger *slog.Logger) *RateStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateStore{Provider: fxfeed.NewProvider(apiFeed{api: api}, ttl, logger.With("component", "rate-store"))}
}

// apiFeed adapts the API's fx endpoint to fxfeed.Client.
type apiFeed struct {
	api RateAPI
}

func (f apiFeed) Fetch(ctx context.Context) (currency.DailyRates, error) {
	daily, err := f.api.FX(ctx)
	if err != nil {
		return currency.DailyRates{}, err
	}
	if len(daily.Rates) == 0 {
		return currency.DailyRates{}, fxfeed.ErrEmptyFeed
	}
	if _, ok := daily.Rates[currency.Base]; !ok {
		daily.Rates = daily.Rates.Clone()
		daily.Rates[currency.Base] = 1
	}
	return daily, nil
}

var _ currency.RateSource = (*RateStore)(nil)
