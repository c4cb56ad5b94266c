package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"ltcpay/internal/domain"
	"ltcpay/internal/infra"

	"github.com/shopspring/decimal"
)

const (
	// defaultRetryDelay is the initial wait after a rate-limit response.
	defaultRetryDelay = 30 * time.Second

	// maxBackoff caps the doubling backoff delay.
	maxBackoff = 120 * time.Second

	defaultMaxRetries = 3
)

// Client fetches current LTC unit prices in USD and EUR from a
// CryptoCompare-style price API. Rate-limit responses are retried with
// exponential backoff inside FetchRates; any other failure surfaces
// immediately.
type Client struct {
	baseURL    string
	apiKey     string
	asset      string
	maxRetries int
	retryDelay time.Duration
	maxDelay   time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *infra.Metrics
}

// NewClient creates a price oracle client from application configuration.
func NewClient(cfg *infra.Config) *Client {
	c := NewClientWithOptions(
		cfg.API.PriceOracle.BaseURL,
		cfg.API.PriceOracle.APIKey,
		cfg.API.PriceOracle.MaxRetries,
		time.Duration(cfg.API.PriceOracle.RetryDelaySec)*time.Second,
	)
	if cfg.API.PriceOracle.Asset != "" {
		c.asset = cfg.API.PriceOracle.Asset
	}
	return c
}

// NewClientWithOptions creates a client with explicit settings. A
// maxRetries below zero falls back to the default; a zero retryDelay falls
// back to the default initial delay.
func NewClientWithOptions(baseURL, apiKey string, maxRetries int, retryDelay time.Duration) *Client {
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		asset:      "LTC",
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		maxDelay:   maxBackoff,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:  slog.Default().With("module", "price_oracle"),
		metrics: infra.GlobalMetrics,
	}
}

// FetchRates returns a validated price snapshot. On a rate-limit response it
// waits and retries, doubling the delay each time up to the cap, for at most
// maxRetries retries; exhausting the budget yields ErrPriceUnavailable. Any
// non-rate-limit failure is returned without retry. The 24h change figure is
// best-effort and never gates the snapshot.
func (c *Client) FetchRates(ctx context.Context) (domain.PriceSnapshot, error) {
	delay := c.retryDelay

	for attempt := 0; ; attempt++ {
		snap, err := c.fetchOnce(ctx)
		if err == nil {
			c.attachChange24h(ctx, &snap)
			return snap, nil
		}

		if !errors.Is(err, domain.ErrRateLimited) {
			return domain.PriceSnapshot{}, err
		}
		if attempt >= c.maxRetries {
			return domain.PriceSnapshot{}, fmt.Errorf("%w: retry budget exhausted after %d calls", domain.ErrPriceUnavailable, attempt+1)
		}

		c.metrics.RecordPriceRateLimit()
		c.logger.Warn("price oracle rate limited, backing off",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
		)

		select {
		case <-ctx.Done():
			return domain.PriceSnapshot{}, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.maxDelay {
			delay = c.maxDelay
		}
	}
}

// fetchOnce issues a single pricemulti request and validates the result.
func (c *Client) fetchOnce(ctx context.Context) (domain.PriceSnapshot, error) {
	c.metrics.RecordPriceFetch()

	q := url.Values{}
	q.Set("fsyms", c.asset)
	q.Set("tsyms", "USD,EUR")
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}

	body, err := c.get(ctx, "/data/pricemulti", q)
	if err != nil {
		return domain.PriceSnapshot{}, err
	}

	// Response maps asset -> {fiat: price}.
	var data map[string]map[string]float64
	if err := json.Unmarshal(body, &data); err != nil {
		return domain.PriceSnapshot{}, domain.NewFatalUpstreamError("fetch_rates", err)
	}

	prices, ok := data[c.asset]
	if !ok {
		return domain.PriceSnapshot{}, fmt.Errorf("%w: no prices for %s in response", domain.ErrInvalidPriceData, c.asset)
	}

	snap, err := domain.NewPriceSnapshot(prices["USD"], prices["EUR"], time.Now().UTC())
	if err != nil {
		return domain.PriceSnapshot{}, err
	}
	return snap, nil
}

// attachChange24h computes the informational 24h change from the historical
// endpoint. Failure here is logged and otherwise ignored.
func (c *Client) attachChange24h(ctx context.Context, snap *domain.PriceSnapshot) {
	q := url.Values{}
	q.Set("fsym", c.asset)
	q.Set("tsym", "USD")
	q.Set("limit", "2")
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}

	body, err := c.get(ctx, "/data/histoday", q)
	if err != nil {
		c.logger.Warn("24h history lookup failed", slog.Any("error", err))
		return
	}

	var hist histodayResponse
	if err := json.Unmarshal(body, &hist); err != nil {
		c.logger.Warn("24h history parse failed", slog.Any("error", err))
		return
	}
	if len(hist.Data) < 2 || hist.Data[1].Close <= 0 {
		return
	}

	prev := decimal.NewFromFloat(hist.Data[1].Close)
	change := snap.PriceUSD.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(2)
	snap.Change24h = &change
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", infra.DefaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewUpstreamError("fetch_rates", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: price oracle returned 429", domain.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, domain.NewFatalUpstreamError("fetch_rates", fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	return io.ReadAll(resp.Body)
}
