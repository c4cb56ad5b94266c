package domain

import "github.com/shopspring/decimal"

// PaymentStatus classifies the outcome of reconciling an expected payment
// against the amounts observed on-ledger.
type PaymentStatus string

const (
	StatusNoPayment PaymentStatus = "no_payment"
	StatusExact     PaymentStatus = "exact"
	StatusOverpaid  PaymentStatus = "overpaid"
	StatusUnderpaid PaymentStatus = "underpaid"
)

// epsilon is the tolerance, in LTC, below which expected and received
// amounts are treated as equal.
var epsilon = decimal.New(1, -6)

// ReconciliationResult is produced fresh per reconciliation call.
type ReconciliationResult struct {
	Status       PaymentStatus
	ReceivedLTC  decimal.Decimal
	ExpectedLTC  decimal.Decimal
	FiatCurrency Currency

	// Shortfall fields are present only when Status is StatusUnderpaid.
	ShortfallLTC  *decimal.Decimal
	ShortfallFiat *decimal.Decimal
}

// Reconcile compares the payment a session expects with what the transaction
// actually delivered to the session's address and classifies the outcome.
//
// The shortfall is re-expressed in fiat using the snapshot frozen at session
// creation, never a fresh rate: a moving exchange rate must not change what
// the payer owes mid-flow.
//
// Reconcile is total and side-effect-free; every (session, transaction) pair
// yields exactly one status and never an error. A transaction that paid the
// address nothing is StatusNoPayment, not a failure.
func Reconcile(session *PendingVerificationSession, tx *TransactionRecord) ReconciliationResult {
	received := tx.ReceivedBy(session.Address)

	result := ReconciliationResult{
		ReceivedLTC:  received,
		ExpectedLTC:  session.ExpectedLTC,
		FiatCurrency: session.FiatCurrency,
	}

	if received.IsZero() {
		result.Status = StatusNoPayment
		return result
	}

	diff := received.Sub(session.ExpectedLTC)
	switch {
	case diff.Abs().LessThan(epsilon):
		result.Status = StatusExact
	case diff.IsPositive():
		result.Status = StatusOverpaid
	default:
		result.Status = StatusUnderpaid
		shortfall := diff.Neg().Round(CryptoPlaces)
		result.ShortfallLTC = &shortfall
		if fiat, err := Convert(shortfall, LTC, session.FiatCurrency, session.Snapshot); err == nil {
			result.ShortfallFiat = &fiat
		}
	}
	return result
}
