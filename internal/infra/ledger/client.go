package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ltcpay/internal/domain"
	"ltcpay/internal/infra"

	"github.com/sony/gobreaker/v2"
)

// Client queries a transaction-indexing API for the recipient outputs and
// confirmation state of an LTC transaction.
//
// Unlike the price oracle, this client never retries on its own: a failed
// lookup is usually resolved by the human resubmitting a corrected id, not
// by blind retry. Callers that want retry re-invoke explicitly.
type Client struct {
	baseURL      string
	apiKey       string
	explorerBase string
	httpClient   *http.Client
	breaker      *gobreaker.CircuitBreaker[*domain.TransactionRecord]
	logger       *slog.Logger
	metrics      *infra.Metrics
}

// NewClient creates a ledger lookup client from application configuration.
func NewClient(cfg *infra.Config) *Client {
	return NewClientWithOptions(cfg.API.Ledger.BaseURL, cfg.API.Ledger.APIKey, cfg.API.Ledger.ExplorerBase)
}

// NewClientWithOptions creates a client with explicit endpoints.
func NewClientWithOptions(baseURL, apiKey, explorerBase string) *Client {
	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		explorerBase: strings.TrimSuffix(explorerBase, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		logger:  slog.Default().With("module", "ledger_client"),
		metrics: infra.GlobalMetrics,
	}

	c.breaker = gobreaker.NewCircuitBreaker[*domain.TransactionRecord](gobreaker.Settings{
		Name:    "ledger-lookup",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A not-found response means a bad user-supplied id, not an
		// unhealthy upstream; it must not trip the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrTransactionNotFound)
		},
	})

	return c
}

// FetchTransaction returns the transaction record for txid. Errors map to
// the upstream's distinguishable responses: ErrTransactionNotFound for an
// unknown id, ErrRateLimited for excessive request rate, ErrLookupFailed
// for anything else (including an open circuit).
func (c *Client) FetchTransaction(ctx context.Context, txid string) (*domain.TransactionRecord, error) {
	c.metrics.RecordLedgerLookup()

	rec, err := c.breaker.Execute(func() (*domain.TransactionRecord, error) {
		return c.doFetch(ctx, txid)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.metrics.RecordLedgerFailure()
			return nil, fmt.Errorf("%w: circuit open", domain.ErrLookupFailed)
		}
		if !errors.Is(err, domain.ErrTransactionNotFound) {
			c.metrics.RecordLedgerFailure()
		}
		return nil, err
	}
	return rec, nil
}

func (c *Client) doFetch(ctx context.Context, txid string) (*domain.TransactionRecord, error) {
	url := c.baseURL + "/v3/litecoin/transaction/" + txid

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fallthrough to parsing
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, txid)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: ledger returned 429", domain.ErrRateLimited)
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrLookupFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}

	var raw transactionResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", domain.ErrLookupFailed, err)
	}

	rec, err := raw.toRecord(txid)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("transaction fetched",
		slog.String("txid", txid),
		slog.Int("outputs", len(rec.Outputs)),
		slog.Bool("confirmed", rec.IsConfirmed),
	)
	return rec, nil
}

// ExplorerURL builds the human-facing explorer link for a transaction.
// Display only; never consumed programmatically.
func (c *Client) ExplorerURL(txid string) string {
	return c.explorerBase + "/" + txid
}
