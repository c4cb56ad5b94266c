package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestUpstreamError(t *testing.T) {
	baseErr := errors.New("connection refused")

	t.Run("retriable error", func(t *testing.T) {
		err := NewUpstreamError("fetch_rates", baseErr)

		if !err.IsRetriable() {
			t.Error("Expected error to be retriable")
		}

		if err.Error() != "fetch_rates: connection refused" {
			t.Errorf("Error message = %q, want %q", err.Error(), "fetch_rates: connection refused")
		}

		if !errors.Is(err, baseErr) {
			t.Error("Expected error to wrap baseErr")
		}
	})

	t.Run("fatal error", func(t *testing.T) {
		err := NewFatalUpstreamError("fetch_transaction", baseErr)

		if err.IsRetriable() {
			t.Error("Expected error to not be retriable")
		}
	})

	t.Run("IsRetriable helper", func(t *testing.T) {
		retriable := NewUpstreamError("dial", baseErr)
		fatal := NewFatalUpstreamError("parse", baseErr)
		plain := errors.New("plain error")

		if !IsRetriable(retriable) {
			t.Error("IsRetriable should return true for retriable error")
		}

		if IsRetriable(fatal) {
			t.Error("IsRetriable should return false for fatal error")
		}

		if IsRetriable(plain) {
			t.Error("IsRetriable should return false for plain error")
		}
	})
}

func TestIsRetriable_Sentinels(t *testing.T) {
	if !IsRetriable(fmt.Errorf("%w: upstream returned 429", ErrRateLimited)) {
		t.Error("rate limiting should be retriable")
	}
	if !IsRetriable(fmt.Errorf("%w: status 502", ErrLookupFailed)) {
		t.Error("transient lookup failure should be retriable")
	}
	if IsRetriable(ErrInvalidTransactionID) {
		t.Error("validation errors must never be retriable")
	}
	if IsRetriable(ErrSessionNotFound) {
		t.Error("session absence must never be retriable")
	}
}
