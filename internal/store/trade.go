package store

import (
	"sort"
	"sync"

	"github.com/efreitasn/stocksim/internal/domain"
)

// TradeRequestStore is a thread-safe in-memory store for trade requests,
// keyed by request id. Requests are never deleted; resolved ones are kept
// for inbox filtering and audit.
//
// All Status reads and writes go through the store's mutex. Callers that
// also hold an exchange lock must take it before calling into the store,
// never the other way around.
type TradeRequestStore struct {
	mu       sync.RWMutex
	requests map[string]*domain.TradeRequest
}

// NewTradeRequestStore creates an empty TradeRequestStore.
func NewTradeRequestStore() *TradeRequestStore {
	return &TradeRequestStore{
		requests: make(map[string]*domain.TradeRequest),
	}
}

// Create adds a trade request to the store.
func (s *TradeRequestStore) Create(t *domain.TradeRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[t.RequestID] = t
}

// Get returns a snapshot of a trade request by id. It returns
// domain.ErrTradeRequestNotFound if the request does not exist.
func (s *TradeRequestStore) Get(id string) (domain.TradeRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.requests[id]
	if !ok {
		return domain.TradeRequest{}, domain.ErrTradeRequestNotFound
	}
	return *t, nil
}

// Transition atomically moves a request from one status to another. It
// returns false if the request does not exist or is not in the expected
// status, which guards against a request being resolved twice.
func (s *TradeRequestStore) Transition(id string, from, to domain.TradeStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.requests[id]
	if !ok || t.Status != from {
		return false
	}
	t.Status = to
	return true
}

// Inbox returns snapshots of all pending requests addressed to the given
// user within the given exchange, in creation order.
func (s *TradeRequestStore) Inbox(exchangeID, userID string) []domain.TradeRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.TradeRequest, 0)
	for _, t := range s.requests {
		if t.ExchangeID == exchangeID && t.ToUser == userID && t.Status == domain.TradeStatusPending {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}
