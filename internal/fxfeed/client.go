// Package fxfeed reads the daily EUR reference rates consumed by the currency
// converter.
package fxfeed

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Clark-Hu/figure-collector/internal/currency"
)

// DefaultURL is the ECB daily reference-rate feed.
const DefaultURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"

const maxFeedBody = 1 << 20

// ErrEmptyFeed is returned when the upstream document carries no rates.
var ErrEmptyFeed = errors.New("fxfeed: no rates in feed")

// Client fetches one snapshot of EUR-based daily rates.
type Client interface {
	Fetch(ctx context.Context) (currency.DailyRates, error)
}

// HTTPClient implements Client against an ECB-shaped XML endpoint.
type HTTPClient struct {
	endpoint *url.URL
	client   *http.Client
	logger   *slog.Logger
}

// NewHTTPClient constructs a feed client for feedURL.
func NewHTTPClient(feedURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	parsed, err := url.Parse(strings.TrimSpace(feedURL))
	if err != nil {
		return nil, fmt.Errorf("parse fx feed url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse fx feed url: %q is not absolute", feedURL)
	}
	return &HTTPClient{
		endpoint: parsed,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Fetch downloads and parses the current feed document.
func (c *HTTPClient) Fetch(ctx context.Context) (currency.DailyRates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.String(), nil)
	if err != nil {
		return currency.DailyRates{}, err
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return currency.DailyRates{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("fxfeed: unexpected status", "status", resp.StatusCode, "url", c.endpoint.String())
		return currency.DailyRates{}, fmt.Errorf("fxfeed: upstream returned %d", resp.StatusCode)
	}
	return parseFeed(io.LimitReader(resp.Body, maxFeedBody))
}

type ecbEnvelope struct {
	Cube struct {
		Days []ecbDay `xml:"Cube"`
	} `xml:"Cube"`
}

type ecbDay struct {
	Time  string    `xml:"time,attr"`
	Rates []ecbRate `xml:"Cube"`
}

type ecbRate struct {
	Currency string `xml:"currency,attr"`
	Rate     string `xml:"rate,attr"`
}

func parseFeed(r io.Reader) (currency.DailyRates, error) {
	var env ecbEnvelope
	if err := xml.NewDecoder(r).Decode(&env); err != nil {
		return currency.DailyRates{}, fmt.Errorf("decode fx feed: %w", err)
	}
	if len(env.Cube.Days) == 0 {
		return currency.DailyRates{}, ErrEmptyFeed
	}
	return convertDay(env.Cube.Days[0])
}

// convertDay keeps only supported currencies and fills the gaps from the
// fallback table so callers always see a complete table.
func convertDay(day ecbDay) (currency.DailyRates, error) {
	rates := currency.Table{currency.Base: 1}
	found := 0
	for _, r := range day.Rates {
		code, ok := currency.ParseCode(r.Currency)
		if !ok || code == currency.Base {
			continue
		}
		val, err := decimal.NewFromString(strings.TrimSpace(r.Rate))
		if err != nil || !val.IsPositive() {
			continue
		}
		rates[code] = val.InexactFloat64()
		found++
	}
	if found == 0 {
		return currency.DailyRates{}, ErrEmptyFeed
	}
	for code, fallback := range currency.Fallback {
		if _, ok := rates[code]; !ok {
			rates[code] = fallback
		}
	}

	asOf := strings.TrimSpace(day.Time)
	if _, err := time.Parse("2006-01-02", asOf); err != nil {
		asOf = time.Now().UTC().Format("2006-01-02")
	}
	return currency.DailyRates{AsOf: asOf, Rates: rates}, nil
}
