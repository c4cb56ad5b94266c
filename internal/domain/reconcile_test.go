package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const destAddress = "LNgWu8hQYUdzP7AQyF25rBkbmxf3ePczCi"

func testSession(t *testing.T) *PendingVerificationSession {
	t.Helper()
	snap := testSnapshot(t, 100, 80)
	return &PendingVerificationSession{
		ID:           "sess-1",
		Address:      destAddress,
		ExpectedLTC:  decimal.RequireFromString("1.00000000"),
		ExpectedFiat: decimal.RequireFromString("80"),
		FiatCurrency: EUR,
		Snapshot:     snap,
		CreatedAt:    time.Now(),
	}
}

func txPaying(amounts ...string) *TransactionRecord {
	tx := &TransactionRecord{TxID: sampleTxID, IsConfirmed: true}
	for _, a := range amounts {
		tx.Outputs = append(tx.Outputs, TxOutput{Address: destAddress, Amount: decimal.RequireFromString(a)})
	}
	return tx
}

func TestReconcile_NoPayment(t *testing.T) {
	sess := testSession(t)
	tx := &TransactionRecord{
		TxID: sampleTxID,
		Outputs: []TxOutput{
			{Address: "LSomeOtherAddress", Amount: decimal.RequireFromString("3")},
		},
	}

	result := Reconcile(sess, tx)
	if result.Status != StatusNoPayment {
		t.Errorf("status = %s, want no_payment", result.Status)
	}
	if !result.ReceivedLTC.IsZero() {
		t.Errorf("received = %s, want 0", result.ReceivedLTC)
	}
	if result.ShortfallLTC != nil || result.ShortfallFiat != nil {
		t.Error("no_payment must carry no shortfall fields")
	}
}

func TestReconcile_Exact(t *testing.T) {
	result := Reconcile(testSession(t), txPaying("1.00000000"))
	if result.Status != StatusExact {
		t.Errorf("status = %s, want exact", result.Status)
	}
}

func TestReconcile_ExactWithinEpsilon(t *testing.T) {
	// A 5e-7 LTC difference is dust, below the 1e-6 tolerance.
	result := Reconcile(testSession(t), txPaying("1.00000050"))
	if result.Status != StatusExact {
		t.Errorf("status = %s, want exact", result.Status)
	}
}

func TestReconcile_Overpaid(t *testing.T) {
	result := Reconcile(testSession(t), txPaying("1.00000200"))
	if result.Status != StatusOverpaid {
		t.Errorf("status = %s, want overpaid", result.Status)
	}
	if result.ShortfallLTC != nil {
		t.Error("overpaid must carry no shortfall")
	}
}

func TestReconcile_Underpaid(t *testing.T) {
	result := Reconcile(testSession(t), txPaying("0.99990000"))
	if result.Status != StatusUnderpaid {
		t.Fatalf("status = %s, want underpaid", result.Status)
	}
	if result.ShortfallLTC == nil {
		t.Fatal("underpaid must carry a crypto shortfall")
	}
	if !result.ShortfallLTC.Equal(decimal.RequireFromString("0.0001")) {
		t.Errorf("shortfall = %s, want 0.0001", result.ShortfallLTC)
	}
	if result.ShortfallFiat == nil {
		t.Fatal("underpaid must carry a fiat shortfall")
	}
	// 0.0001 LTC at the frozen 80 EUR rate, rounded to cents.
	if !result.ShortfallFiat.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("fiat shortfall = %s, want 0.01", result.ShortfallFiat)
	}
}

func TestReconcile_SumsOnlyMatchingOutputs(t *testing.T) {
	sess := testSession(t)
	tx := txPaying("0.4", "0.6")
	tx.Outputs = append(tx.Outputs, TxOutput{
		Address: "LChangeAddress",
		Amount:  decimal.RequireFromString("12.5"),
	})

	result := Reconcile(sess, tx)
	if result.Status != StatusExact {
		t.Errorf("status = %s, want exact (0.4 + 0.6 to destination)", result.Status)
	}
	if !result.ReceivedLTC.Equal(decimal.RequireFromString("1")) {
		t.Errorf("received = %s, want 1", result.ReceivedLTC)
	}
}

func TestReconcile_ShortfallUsesSessionSnapshot(t *testing.T) {
	sess := testSession(t)
	// Freeze a different rate into the session than the "current" market.
	frozen := testSnapshot(t, 200, 160)
	sess.Snapshot = frozen

	result := Reconcile(sess, txPaying("0.5"))
	if result.Status != StatusUnderpaid {
		t.Fatalf("status = %s, want underpaid", result.Status)
	}
	// 0.5 LTC shortfall at the frozen 160 EUR rate.
	if !result.ShortfallFiat.Equal(decimal.RequireFromString("80")) {
		t.Errorf("fiat shortfall = %s, want 80 (frozen rate)", result.ShortfallFiat)
	}
}
