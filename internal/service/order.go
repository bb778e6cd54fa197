package service

import (
	"github.com/efreitasn/stocksim/internal/domain"
	"github.com/efreitasn/stocksim/internal/store"
)

// PlaceOrderRequest represents the input for immediate order execution.
type PlaceOrderRequest struct {
	ExchangeID string
	UserID     string
	Stock      string
	Quantity   int64
	Side       domain.Side
}

// OrderResult describes an executed order: the price in effect at execution
// time and the user's cash after settlement.
type OrderResult struct {
	Stock     string
	Quantity  int64
	Side      domain.Side
	Price     float64
	Total     float64
	CashAfter float64
}

// OrderService executes immediate buy/sell orders against the exchange's
// current price.
type OrderService struct {
	registry *store.ExchangeRegistry
}

// NewOrderService creates a new OrderService.
func NewOrderService(registry *store.ExchangeRegistry) *OrderService {
	return &OrderService{registry: registry}
}

// PlaceOrder validates and settles an order atomically against the price in
// effect while the exchange lock is held, so an order can never observe a
// price from a partially applied tick. A failed order leaves the user's cash
// and holdings untouched.
func (s *OrderService) PlaceOrder(req PlaceOrderRequest) (*OrderResult, error) {
	if req.Side != domain.SideBuy && req.Side != domain.SideSell {
		return nil, &domain.ValidationError{Message: "side must be 'buy' or 'sell'"}
	}
	if req.Quantity <= 0 {
		return nil, &domain.ValidationError{Message: "quantity must be a positive integer"}
	}

	e, err := s.registry.Get(req.ExchangeID)
	if err != nil {
		return nil, err
	}

	e.Mu.Lock()
	defer e.Mu.Unlock()

	if !e.Started {
		return nil, domain.ErrExchangeNotStarted
	}

	user, ok := e.Users[req.UserID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	price, ok := e.Prices[req.Stock]
	if !ok {
		return nil, domain.ErrStockNotFound
	}

	total := float64(req.Quantity) * price

	switch req.Side {
	case domain.SideBuy:
		if user.Cash < total {
			return nil, domain.ErrInsufficientFunds
		}
		user.Cash -= total
		user.Assets[req.Stock] += req.Quantity
	case domain.SideSell:
		if user.Assets[req.Stock] < req.Quantity {
			return nil, domain.ErrInsufficientHoldings
		}
		user.Cash += total
		user.Assets[req.Stock] -= req.Quantity
	}

	return &OrderResult{
		Stock:     req.Stock,
		Quantity:  req.Quantity,
		Side:      req.Side,
		Price:     price,
		Total:     total,
		CashAfter: user.Cash,
	}, nil
}
