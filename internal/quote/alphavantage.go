// Package quote implements the remote quote provider client. The provider
// serves realtime exchange rates and daily close series per currency pair.
package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/forexbot-ai/forexbot/internal/fetch"
	"github.com/forexbot-ai/forexbot/pkg/models"
)

// Common errors returned by the provider client.
var (
	ErrNoAPIKey     = errors.New("quote: API key not configured")
	ErrProviderDown = errors.New("quote: provider unavailable")
	ErrMalformed    = errors.New("quote: malformed provider response")
)

// Client fetches forex data from an Alpha Vantage-compatible API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *fetch.RateLimiter
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL (e.g. a test server).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.client = client }
}

// NewClient creates a provider client.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: "https://www.alphavantage.co/query",
		client:  fetch.Client,
		limiter: fetch.NewRateLimiter(5, time.Minute), // free tier allowance
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ── Wire types ──

type exchangeRateResponse struct {
	Rate *struct {
		ExchangeRate  string `json:"5. Exchange Rate"`
		LastRefreshed string `json:"6. Last Refreshed"`
	} `json:"Realtime Currency Exchange Rate"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

type dailySeriesResponse struct {
	Series       map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series FX (Daily)"`
	Note         string `json:"Note"`
	ErrorMessage string `json:"Error Message"`
}

// ExchangeRate returns the current quote for a pair, deriving bid/ask from
// the mid price with the synthetic spread.
func (c *Client) ExchangeRate(ctx context.Context, base, target string) (models.Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.Quote{}, err
	}

	q := url.Values{}
	q.Set("function", "CURRENCY_EXCHANGE_RATE")
	q.Set("from_currency", base)
	q.Set("to_currency", target)
	q.Set("apikey", c.apiKey)

	var resp exchangeRateResponse
	if err := fetch.GetJSON(ctx, c.client, c.baseURL+"?"+q.Encode(), &resp); err != nil {
		return models.Quote{}, fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	if resp.Rate == nil {
		return models.Quote{}, providerError("exchange rate", resp.ErrorMessage, resp.Note)
	}

	mid, err := strconv.ParseFloat(resp.Rate.ExchangeRate, 64)
	if err != nil {
		return models.Quote{}, fmt.Errorf("%w: exchange rate %q", ErrMalformed, resp.Rate.ExchangeRate)
	}

	return models.QuoteFromMid(mid, resp.Rate.LastRefreshed), nil
}

// DailySeries returns up to maxPoints most-recent daily closes for a pair,
// in chronological order.
func (c *Client) DailySeries(ctx context.Context, base, target string, maxPoints int) (models.RateSeries, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.RateSeries{}, err
	}

	q := url.Values{}
	q.Set("function", "FX_DAILY")
	q.Set("from_symbol", base)
	q.Set("to_symbol", target)
	q.Set("outputsize", "compact")
	q.Set("apikey", c.apiKey)

	var resp dailySeriesResponse
	if err := fetch.GetJSON(ctx, c.client, c.baseURL+"?"+q.Encode(), &resp); err != nil {
		return models.RateSeries{}, fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	if len(resp.Series) == 0 {
		return models.RateSeries{}, providerError("daily series", resp.ErrorMessage, resp.Note)
	}

	// Most recent first, truncated, then reversed to chronological order.
	dates := make([]string, 0, len(resp.Series))
	for d := range resp.Series {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if maxPoints > 0 && len(dates) > maxPoints {
		dates = dates[:maxPoints]
	}

	series := models.RateSeries{
		Dates: make([]string, 0, len(dates)),
		Rates: make([]float64, 0, len(dates)),
	}
	for i := len(dates) - 1; i >= 0; i-- {
		d := dates[i]
		rate, err := strconv.ParseFloat(resp.Series[d].Close, 64)
		if err != nil {
			return models.RateSeries{}, fmt.Errorf("%w: close %q on %s", ErrMalformed, resp.Series[d].Close, d)
		}
		series.Dates = append(series.Dates, d)
		series.Rates = append(series.Rates, rate)
	}

	return series, nil
}

// providerError distinguishes a rate-limit note from a plain provider error.
func providerError(op, errMsg, note string) error {
	switch {
	case note != "":
		return fmt.Errorf("%w: %s rate limited: %s", ErrProviderDown, op, note)
	case errMsg != "":
		return fmt.Errorf("%w: %s: %s", ErrProviderDown, op, errMsg)
	default:
		return fmt.Errorf("%w: %s missing from response", ErrMalformed, op)
	}
}
