package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is worth retrying. Rate limiting and
// transient lookup failures qualify; validation errors never do.
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrLookupFailed)
}

// UpstreamError represents a failure talking to an external API
type UpstreamError struct {
	Op        string // Operation that failed (e.g., "fetch_rates", "fetch_transaction")
	Err       error  // Underlying error
	Retriable bool   // Whether this error is retriable
}

func (e *UpstreamError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) IsRetriable() bool {
	return e.Retriable
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError creates a retriable upstream error
func NewUpstreamError(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err, Retriable: true}
}

// NewFatalUpstreamError creates a non-retriable upstream error
func NewFatalUpstreamError(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err, Retriable: false}
}

var (
	// ErrInvalidAmount is returned for negative or non-finite amounts. Not retriable.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidTransactionID is returned when no 64-character hex id can be
	// found in the submitted input. Not retriable.
	ErrInvalidTransactionID = errors.New("invalid transaction id")

	// ErrPriceUnavailable is returned once the oracle retry budget is exhausted.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrInvalidPriceData is returned when the oracle responds with
	// non-positive or non-finite prices.
	ErrInvalidPriceData = errors.New("invalid price data")

	// ErrSessionNotFound is a normal outcome for late, duplicate or unknown
	// session ids, not a programming error.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTransactionNotFound is returned when the ledger reports no such transaction.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrRateLimited is returned when an upstream rejects the request rate.
	ErrRateLimited = errors.New("rate limited")

	// ErrLookupFailed covers any other transient ledger lookup failure.
	ErrLookupFailed = errors.New("ledger lookup failed")
)
