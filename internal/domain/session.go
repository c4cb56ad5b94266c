package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingVerificationSession records an expected payment awaiting a
// transaction reference. It is owned by the session store from creation
// until it is consumed exactly once or expires.
type PendingVerificationSession struct {
	ID           string
	Address      string // destination wallet the payment must arrive at
	ExpectedLTC  decimal.Decimal
	ExpectedFiat decimal.Decimal
	FiatCurrency Currency
	Snapshot     PriceSnapshot
	CreatedAt    time.Time
}

// Age returns how long the session has existed as of now.
func (s *PendingVerificationSession) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}
