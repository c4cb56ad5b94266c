package session

import (
	"strconv"
	"sync"
	"time"

	"ltcpay/internal/clock"
	"ltcpay/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTTL bounds how long an unconsumed session remains claimable.
	DefaultTTL = 5 * time.Minute

	// DefaultSweepInterval is how often the background sweep purges expired
	// sessions. Correctness does not depend on the sweep: Consume checks the
	// TTL itself, the sweep only bounds memory growth from abandoned flows.
	DefaultSweepInterval = 30 * time.Second
)

// Store holds pending verification sessions in memory, keyed by an opaque
// id. A session is handed out exactly once: Consume is an atomic
// get-and-remove, so two concurrent calls for the same id resolve to one
// winner and one ErrSessionNotFound.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*domain.PendingVerificationSession
	ttl      time.Duration
	clock    clock.Clock

	stopSweep chan struct{}
	wg        sync.WaitGroup
}

// New creates a store with the default TTL and a running background sweep.
func New() *Store {
	return NewWithOptions(DefaultTTL, DefaultSweepInterval, clock.NewSystem())
}

// NewWithOptions creates a store with explicit TTL, sweep interval and
// clock. A sweepInterval of zero disables the background sweep; a nil clock
// falls back to the system clock.
func NewWithOptions(ttl, sweepInterval time.Duration, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.NewSystem()
	}
	s := &Store{
		sessions:  make(map[string]*domain.PendingVerificationSession),
		ttl:       ttl,
		clock:     clk,
		stopSweep: make(chan struct{}),
	}

	if sweepInterval > 0 {
		s.wg.Add(1)
		go s.sweepLoop(sweepInterval)
	}

	return s
}

// Create stores an expected-payment session and returns its id. The id
// carries a base-36 creation-time prefix plus a random suffix; collision
// probability is negligible and concurrent calls never return the same id.
func (s *Store) Create(address string, expectedLTC, expectedFiat decimal.Decimal, fiat domain.Currency, snap domain.PriceSnapshot) string {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	id := newSessionID(now)
	for {
		if _, exists := s.sessions[id]; !exists {
			break
		}
		id = newSessionID(now)
	}

	s.sessions[id] = &domain.PendingVerificationSession{
		ID:           id,
		Address:      address,
		ExpectedLTC:  expectedLTC,
		ExpectedFiat: expectedFiat,
		FiatCurrency: fiat,
		Snapshot:     snap,
		CreatedAt:    now,
	}
	return id
}

// Consume atomically removes and returns the session for id. A session older
// than the TTL at the moment of lookup is treated as absent even if the
// sweep has not purged it yet (lazy expiry). Once consumed, an id can never
// be consumed again.
func (s *Store) Consume(id string) (*domain.PendingVerificationSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	delete(s.sessions, id)

	if sess.Age(s.clock.Now()) > s.ttl {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Len returns the number of sessions physically present, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the background sweep and waits for it to finish.
func (s *Store) Close() {
	close(s.stopSweep)
	s.wg.Wait()
}

func (s *Store) sweepLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopSweep:
			return
		}
	}
}

// sweep purges sessions past their TTL.
func (s *Store) sweep() {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.Age(now) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

func newSessionID(now time.Time) string {
	return strconv.FormatInt(now.UnixNano(), 36) + "-" + uuid.NewString()[:8]
}
