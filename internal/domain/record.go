package domain

import "time"

// VerificationRecord is the persisted audit trail of one completed
// reconciliation. Sessions themselves are ephemeral; records are not.
type VerificationRecord struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	SessionID     string     `gorm:"index" json:"session_id"`
	TxID          string     `gorm:"index" json:"txid"`
	Address       string     `json:"address"`
	Status        string     `gorm:"index" json:"status"`
	ExpectedLTC   string     `json:"expected_ltc"`
	ReceivedLTC   string     `json:"received_ltc"`
	ShortfallLTC  string     `json:"shortfall_ltc,omitempty"`
	ShortfallFiat string     `json:"shortfall_fiat,omitempty"`
	FiatCurrency  string     `json:"fiat_currency"`
	Confirmed     bool       `json:"confirmed"`
	BlockTime     *time.Time `json:"block_time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewVerificationRecord flattens a reconciliation outcome into its storable form.
func NewVerificationRecord(session *PendingVerificationSession, tx *TransactionRecord, result ReconciliationResult) *VerificationRecord {
	rec := &VerificationRecord{
		SessionID:    session.ID,
		Address:      session.Address,
		TxID:         tx.TxID,
		Status:       string(result.Status),
		ExpectedLTC:  result.ExpectedLTC.String(),
		ReceivedLTC:  result.ReceivedLTC.String(),
		FiatCurrency: string(result.FiatCurrency),
		Confirmed:    tx.IsConfirmed,
		BlockTime:    tx.BlockTime,
	}
	if result.ShortfallLTC != nil {
		rec.ShortfallLTC = result.ShortfallLTC.String()
	}
	if result.ShortfallFiat != nil {
		rec.ShortfallFiat = result.ShortfallFiat.String()
	}
	return rec
}
