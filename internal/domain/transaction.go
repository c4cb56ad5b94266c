package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxOutput is a single recipient output of an on-ledger transaction.
type TxOutput struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

// TransactionRecord is the read-only view of a transaction as reported by
// the ledger indexing service.
type TransactionRecord struct {
	TxID        string     `json:"txid"`
	Outputs     []TxOutput `json:"outputs"`
	BlockTime   *time.Time `json:"block_time,omitempty"`
	IsConfirmed bool       `json:"is_confirmed"`
}

// ReceivedBy sums the outputs paying the given address. Outputs to any other
// address (change, unrelated recipients) are ignored.
func (t *TransactionRecord) ReceivedBy(address string) decimal.Decimal {
	total := decimal.Zero
	for _, out := range t.Outputs {
		if out.Address == address {
			total = total.Add(out.Amount)
		}
	}
	return total
}

// TotalOutput sums every output of the transaction regardless of recipient.
func (t *TransactionRecord) TotalOutput() decimal.Decimal {
	total := decimal.Zero
	for _, out := range t.Outputs {
		total = total.Add(out.Amount)
	}
	return total
}
