// Package orderstore keeps the in-memory view of open orders maintained by
// the user data stream listener. It is the only state shared between the
// listener goroutine and request handlers, so every access goes through one
// mutex.
package orderstore

import (
	"sort"
	"sync"

	"github.com/alexbobes/slack-binance-trading-bot/internal/domain"
)

// Store maps symbol -> most recent open order id. At most one entry per
// symbol: a later update for the same symbol replaces the earlier one.
type Store struct {
	mu     sync.RWMutex
	orders map[string]int64
}

func New() *Store {
	return &Store{orders: make(map[string]int64)}
}

// Upsert records orderID as the open order for symbol, replacing any
// previous entry.
func (s *Store) Upsert(symbol string, orderID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[symbol] = orderID
}

// Remove drops the entry for symbol. Removing an absent symbol is a no-op.
func (s *Store) Remove(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, symbol)
}

// Snapshot returns a point-in-time copy of the store, sorted by symbol.
func (s *Store) Snapshot() []domain.OpenOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.OpenOrder, 0, len(s.orders))
	for symbol, orderID := range s.orders {
		out = append(out, domain.OpenOrder{Symbol: symbol, OrderID: orderID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Len returns the number of symbols with a tracked open order.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
