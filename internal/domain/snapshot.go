package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot is an immutable pair of LTC unit prices captured at one
// instant. A session holds the snapshot taken when its quote was issued so
// the quoted amount stays stable while the market moves.
type PriceSnapshot struct {
	PriceUSD  decimal.Decimal
	PriceEUR  decimal.Decimal
	FetchedAt time.Time

	// Change24h is the 24-hour USD price change in percent. Informational
	// only; nil when the historical lookup was unavailable.
	Change24h *decimal.Decimal
}

// NewPriceSnapshot validates the raw prices returned by the oracle.
// Both unit prices must be strictly positive and finite; a snapshot
// violating that is never constructed.
func NewPriceSnapshot(priceUSD, priceEUR float64, fetchedAt time.Time) (PriceSnapshot, error) {
	for _, p := range []float64{priceUSD, priceEUR} {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return PriceSnapshot{}, fmt.Errorf("%w: non-finite unit price", ErrInvalidPriceData)
		}
		if p <= 0 {
			return PriceSnapshot{}, fmt.Errorf("%w: non-positive unit price %v", ErrInvalidPriceData, p)
		}
	}

	return PriceSnapshot{
		PriceUSD:  decimal.NewFromFloat(priceUSD),
		PriceEUR:  decimal.NewFromFloat(priceEUR),
		FetchedAt: fetchedAt,
	}, nil
}

// UnitPrice returns the LTC unit price in the given fiat currency.
func (s PriceSnapshot) UnitPrice(c Currency) (decimal.Decimal, error) {
	switch c {
	case USD:
		return s.PriceUSD, nil
	case EUR:
		return s.PriceEUR, nil
	default:
		return decimal.Zero, fmt.Errorf("no unit price for currency %q", c)
	}
}
