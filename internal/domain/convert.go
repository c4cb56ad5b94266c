package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Convert converts amount between LTC, USD and EUR using the unit prices
// frozen in snap. Fiat-to-fiat conversion pivots through LTC since no direct
// cross rate is fetched.
//
// Rounding is half-away-from-zero and applied exactly once, at the output
// boundary: 8 fractional digits for LTC, 2 for fiat. Intermediate results of
// the pivot are never rounded, so chained conversions do not compound
// rounding error.
func Convert(amount decimal.Decimal, from, to Currency, snap PriceSnapshot) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative amount %s", ErrInvalidAmount, amount)
	}
	if !from.IsSupported() {
		return decimal.Zero, fmt.Errorf("%w: unsupported currency %q", ErrInvalidAmount, from)
	}
	if !to.IsSupported() {
		return decimal.Zero, fmt.Errorf("%w: unsupported currency %q", ErrInvalidAmount, to)
	}
	if from == to {
		return amount, nil
	}

	var out decimal.Decimal
	switch {
	case from == LTC:
		price, err := snap.UnitPrice(to)
		if err != nil {
			return decimal.Zero, err
		}
		out = amount.Mul(price)
	case to == LTC:
		price, err := snap.UnitPrice(from)
		if err != nil {
			return decimal.Zero, err
		}
		out = amount.Div(price)
	default:
		// Fiat to fiat: pivot through the crypto asset.
		fromPrice, err := snap.UnitPrice(from)
		if err != nil {
			return decimal.Zero, err
		}
		toPrice, err := snap.UnitPrice(to)
		if err != nil {
			return decimal.Zero, err
		}
		out = amount.Mul(toPrice).Div(fromPrice)
	}

	return roundFor(to, out), nil
}

// roundFor applies the output-boundary rounding policy for the target currency.
func roundFor(c Currency, d decimal.Decimal) decimal.Decimal {
	if c == LTC {
		return d.Round(CryptoPlaces)
	}
	return d.Round(FiatPlaces)
}
