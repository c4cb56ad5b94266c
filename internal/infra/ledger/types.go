package ledger

import (
	"fmt"
	"time"

	"ltcpay/internal/domain"

	"github.com/shopspring/decimal"
)

// transactionResponse is the upstream transaction shape. Output values
// arrive as decimal strings; blockNumber is absent until the transaction is
// included in a block.
type transactionResponse struct {
	Hash        string `json:"hash"`
	BlockNumber *int64 `json:"blockNumber"`
	Time        int64  `json:"time"`
	Outputs     []struct {
		Address string `json:"address"`
		Value   string `json:"value"`
	} `json:"outputs"`
}

// toRecord converts the wire shape into the domain view.
func (r *transactionResponse) toRecord(txid string) (*domain.TransactionRecord, error) {
	rec := &domain.TransactionRecord{
		TxID:        txid,
		Outputs:     make([]domain.TxOutput, 0, len(r.Outputs)),
		IsConfirmed: r.BlockNumber != nil,
	}

	if r.Time > 0 {
		t := time.Unix(r.Time, 0).UTC()
		rec.BlockTime = &t
	}

	for _, out := range r.Outputs {
		amount, err := decimal.NewFromString(out.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed output value %q", domain.ErrLookupFailed, out.Value)
		}
		rec.Outputs = append(rec.Outputs, domain.TxOutput{
			Address: out.Address,
			Amount:  amount,
		})
	}

	return rec, nil
}
