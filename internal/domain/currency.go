package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Currency identifies one of the currencies handled by the verification core.
type Currency string

const (
	// LTC is the crypto asset all conversions pivot through.
	LTC Currency = "LTC"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// IsFiat reports whether c is one of the supported fiat currencies.
func (c Currency) IsFiat() bool {
	return c == USD || c == EUR
}

// IsSupported reports whether c is a currency this system can convert.
func (c Currency) IsSupported() bool {
	return c == LTC || c.IsFiat()
}

// Fractional digits applied once at the conversion output boundary.
const (
	CryptoPlaces int32 = 8
	FiatPlaces   int32 = 2
)

// NewAmount converts a float taken at an input boundary into a decimal
// amount. Negative, NaN and infinite values are rejected.
func NewAmount(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: non-finite value", ErrInvalidAmount)
	}
	if f < 0 {
		return decimal.Zero, fmt.Errorf("%w: negative value %v", ErrInvalidAmount, f)
	}
	return decimal.NewFromFloat(f), nil
}
