package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	txidExact = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	txidRun   = regexp.MustCompile(`[0-9a-fA-F]{64}`)
)

// ExtractTxID returns the canonical 64-hex-digit transaction id contained in
// raw user input. A bare id is returned as-is; otherwise the first contiguous
// 64-character hex run is taken, which tolerates pasted block-explorer URLs
// carrying the id as a path segment. Matching is case-insensitive and the
// original casing of the matched substring is preserved.
func ExtractTxID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if txidExact.MatchString(s) {
		return s, nil
	}
	if m := txidRun.FindString(s); m != "" {
		return m, nil
	}
	return "", fmt.Errorf("%w: no 64-character hex run in input", ErrInvalidTransactionID)
}
