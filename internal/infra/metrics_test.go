package infra

import (
	"testing"
)

func TestMetrics_PriceCounters(t *testing.T) {
	m := &Metrics{}

	m.RecordPriceFetch()
	m.RecordPriceFetch()
	m.RecordPriceRateLimit()

	snap := m.Snapshot()
	if snap.PriceFetchCalls != 2 {
		t.Errorf("Expected 2 fetch calls, got %d", snap.PriceFetchCalls)
	}
	if snap.PriceRateLimits != 1 {
		t.Errorf("Expected 1 rate limit, got %d", snap.PriceRateLimits)
	}
}

func TestMetrics_SessionLifecycle(t *testing.T) {
	m := &Metrics{}

	m.RecordSessionCreated()
	m.RecordSessionCreated()
	m.RecordSessionConsumed()
	m.RecordSessionExpired()

	snap := m.Snapshot()
	if snap.SessionsCreated != 2 {
		t.Errorf("Expected 2 created, got %d", snap.SessionsCreated)
	}
	if snap.SessionsConsumed != 1 {
		t.Errorf("Expected 1 consumed, got %d", snap.SessionsConsumed)
	}
	if snap.SessionsExpired != 1 {
		t.Errorf("Expected 1 expired, got %d", snap.SessionsExpired)
	}
}

func TestMetrics_ReconciliationOutcomes(t *testing.T) {
	m := &Metrics{}

	m.RecordReconciliation("exact")
	m.RecordReconciliation("exact")
	m.RecordReconciliation("underpaid")
	m.RecordReconciliation("no_payment")
	m.RecordReconciliation("bogus") // ignored

	snap := m.Snapshot()
	if snap.ReconExact != 2 {
		t.Errorf("Expected 2 exact, got %d", snap.ReconExact)
	}
	if snap.ReconUnderpaid != 1 {
		t.Errorf("Expected 1 underpaid, got %d", snap.ReconUnderpaid)
	}
	if snap.ReconNoPayment != 1 {
		t.Errorf("Expected 1 no_payment, got %d", snap.ReconNoPayment)
	}
	if snap.ReconOverpaid != 0 {
		t.Errorf("Expected 0 overpaid, got %d", snap.ReconOverpaid)
	}
}
