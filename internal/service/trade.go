package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/efreitasn/stocksim/internal/domain"
	"github.com/efreitasn/stocksim/internal/store"
)

// TradeDecision is the receiver's response to a trade request.
type TradeDecision string

const (
	TradeDecisionAccept  TradeDecision = "accept"
	TradeDecisionDecline TradeDecision = "decline"
)

// ProposeTradeRequest represents the input for proposing a direct trade.
type ProposeTradeRequest struct {
	ExchangeID string
	FromUser   string
	ToUser     string
	Stock      string
	Quantity   int64
	Price      float64
	Direction  domain.Side
}

// RespondTradeRequest represents the receiver's accept/decline response.
type RespondTradeRequest struct {
	ExchangeID string
	RequestID  string
	Decision   TradeDecision
}

// TradeService handles the two-party propose/accept/decline workflow.
// Proposals are durable offers: no balance or holding check happens until
// settlement.
type TradeService struct {
	registry *store.ExchangeRegistry
	trades   *store.TradeRequestStore
}

// NewTradeService creates a new TradeService.
func NewTradeService(registry *store.ExchangeRegistry, trades *store.TradeRequestStore) *TradeService {
	return &TradeService{
		registry: registry,
		trades:   trades,
	}
}

// Propose validates that both parties exist on the exchange and records a
// pending trade request, returning its id.
func (s *TradeService) Propose(req ProposeTradeRequest) (string, error) {
	if req.Direction != domain.SideBuy && req.Direction != domain.SideSell {
		return "", &domain.ValidationError{Message: "direction must be 'buy' or 'sell'"}
	}
	if req.Quantity <= 0 {
		return "", &domain.ValidationError{Message: "quantity must be a positive integer"}
	}
	if req.Price <= 0 {
		return "", &domain.ValidationError{Message: "price must be > 0"}
	}
	if req.FromUser == req.ToUser {
		return "", &domain.ValidationError{Message: "cannot trade with yourself"}
	}

	e, err := s.registry.Get(req.ExchangeID)
	if err != nil {
		return "", err
	}

	e.Mu.Lock()
	defer e.Mu.Unlock()

	if !e.Started {
		return "", domain.ErrExchangeNotStarted
	}
	if _, ok := e.Users[req.FromUser]; !ok {
		return "", domain.ErrUserNotFound
	}
	if _, ok := e.Users[req.ToUser]; !ok {
		return "", domain.ErrUserNotFound
	}
	if _, ok := e.Prices[req.Stock]; !ok {
		return "", domain.ErrStockNotFound
	}

	trade := &domain.TradeRequest{
		RequestID:  uuid.New().String(),
		ExchangeID: req.ExchangeID,
		FromUser:   req.FromUser,
		ToUser:     req.ToUser,
		Stock:      req.Stock,
		Quantity:   req.Quantity,
		Price:      req.Price,
		Direction:  req.Direction,
		Status:     domain.TradeStatusPending,
		CreatedAt:  time.Now(),
	}
	s.trades.Create(trade)
	return trade.RequestID, nil
}

// Respond resolves a pending trade request. Decline marks it declined with
// no other mutation. Accept re-validates balances at the agreed price under
// the exchange lock and settles both sides atomically; a failed settlement
// leaves the request pending and retryable.
func (s *TradeService) Respond(req RespondTradeRequest) (domain.TradeStatus, error) {
	if req.Decision != TradeDecisionAccept && req.Decision != TradeDecisionDecline {
		return "", &domain.ValidationError{Message: "decision must be 'accept' or 'decline'"}
	}

	trade, err := s.trades.Get(req.RequestID)
	if err != nil {
		return "", err
	}
	if trade.ExchangeID != req.ExchangeID {
		return "", domain.ErrTradeRequestNotFound
	}
	if trade.Status != domain.TradeStatusPending {
		return "", domain.ErrTradeRequestResolved
	}

	if req.Decision == TradeDecisionDecline {
		if !s.trades.Transition(req.RequestID, domain.TradeStatusPending, domain.TradeStatusDeclined) {
			return "", domain.ErrTradeRequestResolved
		}
		return domain.TradeStatusDeclined, nil
	}

	e, err := s.registry.Get(req.ExchangeID)
	if err != nil {
		return "", err
	}

	e.Mu.Lock()
	defer e.Mu.Unlock()

	if !e.Started {
		return "", domain.ErrExchangeNotStarted
	}

	payer, ok := e.Users[trade.Payer()]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	deliverer, ok := e.Users[trade.Deliverer()]
	if !ok {
		return "", domain.ErrUserNotFound
	}

	total := float64(trade.Quantity) * trade.Price
	if payer.Cash < total {
		return "", domain.ErrInsufficientFunds
	}
	if deliverer.Assets[trade.Stock] < trade.Quantity {
		return "", domain.ErrInsufficientHoldings
	}

	// The status transition is the commit point: it can only succeed once,
	// so a racing duplicate accept cannot settle twice.
	if !s.trades.Transition(req.RequestID, domain.TradeStatusPending, domain.TradeStatusAccepted) {
		return "", domain.ErrTradeRequestResolved
	}

	payer.Cash -= total
	payer.Assets[trade.Stock] += trade.Quantity
	deliverer.Cash += total
	deliverer.Assets[trade.Stock] -= trade.Quantity

	return domain.TradeStatusAccepted, nil
}

// Inbox returns all pending trade requests addressed to the user on the
// given exchange.
func (s *TradeService) Inbox(exchangeID, userID string) ([]domain.TradeRequest, error) {
	e, err := s.registry.Get(exchangeID)
	if err != nil {
		return nil, err
	}

	e.Mu.Lock()
	_, ok := e.Users[userID]
	e.Mu.Unlock()
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	return s.trades.Inbox(exchangeID, userID), nil
}
