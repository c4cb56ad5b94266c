package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testSnapshot(t *testing.T, usd, eur float64) PriceSnapshot {
	t.Helper()
	snap, err := NewPriceSnapshot(usd, eur, time.Now())
	if err != nil {
		t.Fatalf("NewPriceSnapshot failed: %v", err)
	}
	return snap
}

func TestConvert_Identity(t *testing.T) {
	snap := testSnapshot(t, 100, 80)

	for _, c := range []Currency{LTC, USD, EUR} {
		amount := decimal.RequireFromString("1.23456789")
		got, err := Convert(amount, c, c, snap)
		if err != nil {
			t.Fatalf("Convert(%s -> %s) failed: %v", c, c, err)
		}
		if !got.Equal(amount) {
			t.Errorf("Convert(%s -> %s) = %s, want input unchanged", c, c, got)
		}
	}
}

func TestConvert_CryptoToFiat(t *testing.T) {
	snap := testSnapshot(t, 100, 80)

	got, err := Convert(decimal.RequireFromString("1.5"), LTC, EUR, snap)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("120")) {
		t.Errorf("1.5 LTC = %s EUR, want 120", got)
	}

	got, err = Convert(decimal.RequireFromString("0.25"), LTC, USD, snap)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("25")) {
		t.Errorf("0.25 LTC = %s USD, want 25", got)
	}
}

func TestConvert_FiatToCrypto(t *testing.T) {
	snap := testSnapshot(t, 100, 80)

	got, err := Convert(decimal.RequireFromString("50"), EUR, LTC, snap)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("0.625")) {
		t.Errorf("50 EUR = %s LTC, want 0.625", got)
	}
}

func TestConvert_FiatPivot(t *testing.T) {
	snap := testSnapshot(t, 100, 80)

	got, err := Convert(decimal.RequireFromString("25"), USD, EUR, snap)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("20")) {
		t.Errorf("25 USD = %s EUR, want 20", got)
	}

	back, err := Convert(got, EUR, USD, snap)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !back.Equal(decimal.RequireFromString("25")) {
		t.Errorf("round trip returned %s, want 25", back)
	}
}

func TestConvert_RoundTripWithinEpsilon(t *testing.T) {
	snap := testSnapshot(t, 87.34, 80.11)
	tolerance := decimal.New(1, -6)

	for _, raw := range []string{"10", "99.99", "0.01", "1234.56"} {
		x := decimal.RequireFromString(raw)
		there, err := Convert(x, USD, EUR, snap)
		if err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
		back, err := Convert(there, EUR, USD, snap)
		if err != nil {
			t.Fatalf("Convert failed: %v", err)
		}
		// The fiat output boundary rounds to cents, so allow that plus epsilon.
		maxDiff := decimal.RequireFromString("0.005").Add(tolerance)
		if back.Sub(x).Abs().GreaterThan(maxDiff) {
			t.Errorf("round trip of %s drifted to %s", x, back)
		}
	}
}

func TestConvert_RoundingPolicy(t *testing.T) {
	// Half away from zero at the output boundary.
	snap := testSnapshot(t, 1, 1)

	got, err := Convert(decimal.RequireFromString("0.015"), LTC, USD, snap)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("0.02")) {
		t.Errorf("0.015 rounded to %s, want 0.02", got)
	}

	snap3 := testSnapshot(t, 3, 3)
	got, err = Convert(decimal.RequireFromString("1"), USD, LTC, snap3)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("0.33333333")) {
		t.Errorf("1/3 LTC rounded to %s, want 0.33333333", got)
	}
}

func TestConvert_InvalidInputs(t *testing.T) {
	snap := testSnapshot(t, 100, 80)

	if _, err := Convert(decimal.RequireFromString("-1"), USD, LTC, snap); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount: got %v, want ErrInvalidAmount", err)
	}
	if _, err := Convert(decimal.NewFromInt(1), Currency("GBP"), LTC, snap); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("unsupported currency: got %v, want ErrInvalidAmount", err)
	}
}

func TestNewAmount(t *testing.T) {
	if _, err := NewAmount(math.NaN()); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("NaN: got %v, want ErrInvalidAmount", err)
	}
	if _, err := NewAmount(math.Inf(1)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("+Inf: got %v, want ErrInvalidAmount", err)
	}
	if _, err := NewAmount(-0.01); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative: got %v, want ErrInvalidAmount", err)
	}

	got, err := NewAmount(12.34)
	if err != nil {
		t.Fatalf("NewAmount(12.34) failed: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("12.34")) {
		t.Errorf("NewAmount(12.34) = %s", got)
	}
}

func TestNewPriceSnapshot_Invalid(t *testing.T) {
	cases := []struct {
		name     string
		usd, eur float64
	}{
		{"zero usd", 0, 80},
		{"negative eur", 100, -1},
		{"nan", math.NaN(), 80},
		{"inf", 100, math.Inf(1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewPriceSnapshot(tc.usd, tc.eur, time.Now()); !errors.Is(err, ErrInvalidPriceData) {
				t.Errorf("got %v, want ErrInvalidPriceData", err)
			}
		})
	}
}
