package marketdata

import (
	"sync"
	"time"

	"github.com/fxquant/fxlib/curve"
)

// Store keeps the latest normalized quote set per currency. A new snapshot
// replaces the previous one wholesale; readers get copies, so the curve
// bootstrap never observes a snapshot mid-update.
type Store struct {
	mu      sync.RWMutex
	quotes  map[string][]curve.InstrumentQuote
	updated map[string]time.Time
}

func NewStore() *Store {
	return &Store{
		quotes:  make(map[string][]curve.InstrumentQuote),
		updated: make(map[string]time.Time),
	}
}

// Put replaces the currency's quote set.
func (s *Store) Put(currency string, quotes []curve.InstrumentQuote) {
	cp := make([]curve.InstrumentQuote, len(quotes))
	copy(cp, quotes)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[currency] = cp
	s.updated[currency] = time.Now().UTC()
}

// Get returns a copy of the currency's latest quote set.
func (s *Store) Get(currency string) ([]curve.InstrumentQuote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quotes, ok := s.quotes[currency]
	if !ok {
		return nil, false
	}
	cp := make([]curve.InstrumentQuote, len(quotes))
	copy(cp, quotes)
	return cp, true
}

// UpdatedAt returns when the currency's snapshot was last replaced.
func (s *Store) UpdatedAt(currency string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts, ok := s.updated[currency]
	return ts, ok
}

// Currencies lists the currencies with a stored snapshot.
func (s *Store) Currencies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.quotes))
	for ccy := range s.quotes {
		out = append(out, ccy)
	}
	return out
}
