package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/stocksim/internal/domain"
	"github.com/efreitasn/stocksim/internal/service"
)

// OrderHandler handles HTTP requests for immediate order execution.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// placeOrderRequest is the JSON request body for POST /exchanges/{id}/orders.
type placeOrderRequest struct {
	UserID   string `json:"user_id"`
	Stock    string `json:"stock"`
	Quantity int64  `json:"quantity"`
	Side     string `json:"side"`
}

// orderResultResponse is the JSON response for an executed order.
type orderResultResponse struct {
	Stock     string  `json:"stock"`
	Quantity  int64   `json:"quantity"`
	Side      string  `json:"side"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
	CashAfter float64 `json:"cash_after"`
}

// PlaceOrder handles POST /exchanges/{exchange_id}/orders.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.orderSvc.PlaceOrder(service.PlaceOrderRequest{
		ExchangeID: chi.URLParam(r, "exchange_id"),
		UserID:     req.UserID,
		Stock:      req.Stock,
		Quantity:   req.Quantity,
		Side:       domain.Side(req.Side),
	})
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, orderResultResponse{
		Stock:     result.Stock,
		Quantity:  result.Quantity,
		Side:      string(result.Side),
		Price:     result.Price,
		Total:     result.Total,
		CashAfter: result.CashAfter,
	})
}
