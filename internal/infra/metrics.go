package infra

import "sync/atomic"

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Upstream counters
	priceFetchCalls atomic.Uint64 // individual upstream price requests
	priceRateLimits atomic.Uint64 // 429 responses from the oracle
	ledgerLookups   atomic.Uint64
	ledgerFailures  atomic.Uint64

	// Session lifecycle
	sessionsCreated  atomic.Uint64
	sessionsConsumed atomic.Uint64
	sessionsExpired  atomic.Uint64

	// Reconciliation outcomes
	reconExact     atomic.Uint64
	reconOverpaid  atomic.Uint64
	reconUnderpaid atomic.Uint64
	reconNoPayment atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordPriceFetch records a single upstream price request.
func (m *Metrics) RecordPriceFetch() {
	m.priceFetchCalls.Add(1)
}

// RecordPriceRateLimit records a rate-limit response from the oracle.
func (m *Metrics) RecordPriceRateLimit() {
	m.priceRateLimits.Add(1)
}

// RecordLedgerLookup records a ledger lookup attempt.
func (m *Metrics) RecordLedgerLookup() {
	m.ledgerLookups.Add(1)
}

// RecordLedgerFailure records a failed ledger lookup.
func (m *Metrics) RecordLedgerFailure() {
	m.ledgerFailures.Add(1)
}

// RecordSessionCreated records a newly created verification session.
func (m *Metrics) RecordSessionCreated() {
	m.sessionsCreated.Add(1)
}

// RecordSessionConsumed records a session claimed by a submission.
func (m *Metrics) RecordSessionConsumed() {
	m.sessionsConsumed.Add(1)
}

// RecordSessionExpired records a session released by the expiry watchdog.
func (m *Metrics) RecordSessionExpired() {
	m.sessionsExpired.Add(1)
}

// RecordReconciliation records a classified payment outcome.
func (m *Metrics) RecordReconciliation(status string) {
	switch status {
	case "exact":
		m.reconExact.Add(1)
	case "overpaid":
		m.reconOverpaid.Add(1)
	case "underpaid":
		m.reconUnderpaid.Add(1)
	case "no_payment":
		m.reconNoPayment.Add(1)
	}
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	PriceFetchCalls  uint64
	PriceRateLimits  uint64
	LedgerLookups    uint64
	LedgerFailures   uint64
	SessionsCreated  uint64
	SessionsConsumed uint64
	SessionsExpired  uint64
	ReconExact       uint64
	ReconOverpaid    uint64
	ReconUnderpaid   uint64
	ReconNoPayment   uint64
}

// Snapshot returns a consistent-enough view for logging and debugging.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		PriceFetchCalls:  m.priceFetchCalls.Load(),
		PriceRateLimits:  m.priceRateLimits.Load(),
		LedgerLookups:    m.ledgerLookups.Load(),
		LedgerFailures:   m.ledgerFailures.Load(),
		SessionsCreated:  m.sessionsCreated.Load(),
		SessionsConsumed: m.sessionsConsumed.Load(),
		SessionsExpired:  m.sessionsExpired.Load(),
		ReconExact:       m.reconExact.Load(),
		ReconOverpaid:    m.reconOverpaid.Load(),
		ReconUnderpaid:   m.reconUnderpaid.Load(),
		ReconNoPayment:   m.reconNoPayment.Load(),
	}
}
