package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ltcpay/internal/domain"
	"ltcpay/internal/infra"

	"github.com/shopspring/decimal"
)

// PriceOracle fetches a fresh price snapshot.
type PriceOracle interface {
	FetchRates(ctx context.Context) (domain.PriceSnapshot, error)
}

// LedgerLookup fetches transactions from the ledger indexing service.
type LedgerLookup interface {
	FetchTransaction(ctx context.Context, txid string) (*domain.TransactionRecord, error)
	ExplorerURL(txid string) string
}

// SessionStore holds pending verification sessions.
type SessionStore interface {
	Create(address string, expectedLTC, expectedFiat decimal.Decimal, fiat domain.Currency, snap domain.PriceSnapshot) string
	Consume(id string) (*domain.PendingVerificationSession, error)
}

// HistoryStore persists completed verifications.
type HistoryStore interface {
	SaveVerification(rec *domain.VerificationRecord) error
}

// VerificationService drives the payment verification flow: quote an order,
// hold the expectation as a session, and reconcile a submitted transaction
// reference against it.
type VerificationService struct {
	oracle   PriceOracle
	ledger   LedgerLookup
	sessions SessionStore
	history  HistoryStore
	logger   *slog.Logger
	metrics  *infra.Metrics

	// submitTimeout bounds how long a session waits for a submission before
	// the watchdog releases it.
	submitTimeout time.Duration

	mu        sync.Mutex
	watchdogs map[string]*time.Timer
}

// NewVerificationService wires the service together. submitTimeout of zero
// falls back to the session store's default TTL.
func NewVerificationService(oracle PriceOracle, ledger LedgerLookup, sessions SessionStore, history HistoryStore, submitTimeout time.Duration) *VerificationService {
	if submitTimeout <= 0 {
		submitTimeout = 5 * time.Minute
	}
	return &VerificationService{
		oracle:        oracle,
		ledger:        ledger,
		sessions:      sessions,
		history:       history,
		logger:        slog.Default().With("module", "verification"),
		metrics:       infra.GlobalMetrics,
		submitTimeout: submitTimeout,
		watchdogs:     make(map[string]*time.Timer),
	}
}

// OrderQuote is the payment instruction data for a newly created order.
type OrderQuote struct {
	SessionID    string
	Address      string
	ExpectedLTC  decimal.Decimal
	ExpectedFiat decimal.Decimal
	FiatCurrency domain.Currency
	Snapshot     domain.PriceSnapshot
}

// CreateOrder quotes an order: fetches a fresh snapshot, converts the fiat
// amount into the expected LTC amount, and stores the expectation as a
// session tied to that snapshot. The session is released automatically if no
// submission arrives within the submit timeout.
func (s *VerificationService) CreateOrder(ctx context.Context, address string, fiatAmount float64, fiat domain.Currency) (*OrderQuote, error) {
	amount, err := domain.NewAmount(fiatAmount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than 0", domain.ErrInvalidAmount)
	}
	if !fiat.IsFiat() {
		return nil, fmt.Errorf("%w: order amount must be in a fiat currency, got %q", domain.ErrInvalidAmount, fiat)
	}

	snap, err := s.oracle.FetchRates(ctx)
	if err != nil {
		return nil, err
	}

	expectedLTC, err := domain.Convert(amount, fiat, domain.LTC, snap)
	if err != nil {
		return nil, err
	}

	id := s.sessions.Create(address, expectedLTC, amount, fiat, snap)
	s.armWatchdog(id)
	s.metrics.RecordSessionCreated()

	s.logger.Info("order created",
		slog.String("session_id", id),
		slog.String("address", address),
		slog.String("expected_ltc", expectedLTC.String()),
		slog.String("expected_fiat", amount.String()),
		slog.String("fiat", string(fiat)),
	)

	return &OrderQuote{
		SessionID:    id,
		Address:      address,
		ExpectedLTC:  expectedLTC,
		ExpectedFiat: amount,
		FiatCurrency: fiat,
		Snapshot:     snap,
	}, nil
}

// VerificationOutcome is the result of reconciling a submitted transaction
// reference against its session.
type VerificationOutcome struct {
	TxID         string
	Result       domain.ReconciliationResult
	ReceivedFiat decimal.Decimal
	Confirmed    bool
	BlockTime    *time.Time
	ExplorerURL  string
}

// SubmitTransaction resolves a submitted transaction reference for a
// session: extract the id, atomically consume the session, fetch the
// transaction, and classify the payment. The fiat re-expression uses the
// snapshot frozen at order creation, never a fresh rate.
func (s *VerificationService) SubmitTransaction(ctx context.Context, sessionID, rawInput string) (*VerificationOutcome, error) {
	txid, err := domain.ExtractTxID(rawInput)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Consume(sessionID)
	if err != nil {
		return nil, err
	}
	s.disarmWatchdog(sessionID)
	s.metrics.RecordSessionConsumed()

	tx, err := s.ledger.FetchTransaction(ctx, txid)
	if err != nil {
		return nil, err
	}

	result := domain.Reconcile(sess, tx)
	s.metrics.RecordReconciliation(string(result.Status))

	receivedFiat, err := domain.Convert(result.ReceivedLTC, domain.LTC, sess.FiatCurrency, sess.Snapshot)
	if err != nil {
		return nil, err
	}

	if s.history != nil {
		rec := domain.NewVerificationRecord(sess, tx, result)
		if err := s.history.SaveVerification(rec); err != nil {
			// The outcome is already decided; a failed audit write must not
			// fail the flow.
			s.logger.Warn("failed to persist verification record", slog.Any("error", err))
		}
	}

	s.logger.Info("transaction reconciled",
		slog.String("session_id", sessionID),
		slog.String("txid", txid),
		slog.String("status", string(result.Status)),
		slog.String("received_ltc", result.ReceivedLTC.String()),
	)

	return &VerificationOutcome{
		TxID:         txid,
		Result:       result,
		ReceivedFiat: receivedFiat,
		Confirmed:    tx.IsConfirmed,
		BlockTime:    tx.BlockTime,
		ExplorerURL:  s.ledger.ExplorerURL(txid),
	}, nil
}

// TransactionSummary is the standalone lookup view of a transaction,
// independent of any session.
type TransactionSummary struct {
	TxID        string
	Total       decimal.Decimal
	TotalFiat   decimal.Decimal
	Fiat        domain.Currency
	Outputs     []domain.TxOutput
	Confirmed   bool
	BlockTime   *time.Time
	ExplorerURL string
}

// LookupTransaction fetches a transaction by raw user input and values its
// total output at current rates. No session is involved; this serves ad-hoc
// inspection of a payment.
func (s *VerificationService) LookupTransaction(ctx context.Context, rawInput string, fiat domain.Currency) (*TransactionSummary, error) {
	txid, err := domain.ExtractTxID(rawInput)
	if err != nil {
		return nil, err
	}

	tx, err := s.ledger.FetchTransaction(ctx, txid)
	if err != nil {
		return nil, err
	}

	snap, err := s.oracle.FetchRates(ctx)
	if err != nil {
		return nil, err
	}

	total := tx.TotalOutput()
	totalFiat, err := domain.Convert(total, domain.LTC, fiat, snap)
	if err != nil {
		return nil, err
	}

	return &TransactionSummary{
		TxID:        txid,
		Total:       total,
		TotalFiat:   totalFiat,
		Fiat:        fiat,
		Outputs:     tx.Outputs,
		Confirmed:   tx.IsConfirmed,
		BlockTime:   tx.BlockTime,
		ExplorerURL: s.ledger.ExplorerURL(txid),
	}, nil
}

// armWatchdog starts the expiry task for a session: one cancellable timer
// bound to the session id. Firing consume-discards the session so an
// abandoned flow never leaves it dangling; losing the consume race to a
// submission is harmless.
func (s *VerificationService) armWatchdog(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.watchdogs[sessionID] = time.AfterFunc(s.submitTimeout, func() {
		s.expireSession(sessionID)
	})
}

func (s *VerificationService) disarmWatchdog(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.watchdogs[sessionID]; ok {
		t.Stop()
		delete(s.watchdogs, sessionID)
	}
}

func (s *VerificationService) expireSession(sessionID string) {
	s.mu.Lock()
	delete(s.watchdogs, sessionID)
	s.mu.Unlock()

	if _, err := s.sessions.Consume(sessionID); err == nil {
		s.metrics.RecordSessionExpired()
		s.logger.Info("session expired unclaimed", slog.String("session_id", sessionID))
	}
}

// Close cancels all pending expiry watchdogs.
func (s *VerificationService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.watchdogs {
		t.Stop()
		delete(s.watchdogs, id)
	}
}
