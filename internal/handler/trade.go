package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/stocksim/internal/domain"
	"github.com/efreitasn/stocksim/internal/service"
)

// TradeHandler handles HTTP requests for the trade negotiation workflow.
type TradeHandler struct {
	tradeSvc *service.TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeSvc *service.TradeService) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc}
}

// proposeTradeRequest is the JSON request body for POST /exchanges/{id}/trades.
type proposeTradeRequest struct {
	FromUser  string  `json:"from_user"`
	ToUser    string  `json:"to_user"`
	Stock     string  `json:"stock"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	Direction string  `json:"direction"`
}

// respondTradeRequest is the JSON request body for
// POST /exchanges/{id}/trades/{request_id}/response.
type respondTradeRequest struct {
	Decision string `json:"decision"`
}

// tradeRequestResponse is one trade request in inbox responses.
type tradeRequestResponse struct {
	RequestID string  `json:"request_id"`
	FromUser  string  `json:"from_user"`
	ToUser    string  `json:"to_user"`
	Stock     string  `json:"stock"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	Direction string  `json:"direction"`
	Status    string  `json:"status"`
}

// Propose handles POST /exchanges/{exchange_id}/trades.
func (h *TradeHandler) Propose(w http.ResponseWriter, r *http.Request) {
	var req proposeTradeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	requestID, err := h.tradeSvc.Propose(service.ProposeTradeRequest{
		ExchangeID: chi.URLParam(r, "exchange_id"),
		FromUser:   req.FromUser,
		ToUser:     req.ToUser,
		Stock:      req.Stock,
		Quantity:   req.Quantity,
		Price:      req.Price,
		Direction:  domain.Side(req.Direction),
	})
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"request_id": requestID})
}

// Respond handles POST /exchanges/{exchange_id}/trades/{request_id}/response.
func (h *TradeHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req respondTradeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	status, err := h.tradeSvc.Respond(service.RespondTradeRequest{
		ExchangeID: chi.URLParam(r, "exchange_id"),
		RequestID:  chi.URLParam(r, "request_id"),
		Decision:   service.TradeDecision(req.Decision),
	})
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"request_id": chi.URLParam(r, "request_id"),
		"status":     string(status),
	})
}

// Inbox handles GET /exchanges/{exchange_id}/inbox/{user_id}.
func (h *TradeHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	requests, err := h.tradeSvc.Inbox(chi.URLParam(r, "exchange_id"), chi.URLParam(r, "user_id"))
	if err != nil {
		mapError(w, err)
		return
	}

	inbox := make([]tradeRequestResponse, len(requests))
	for i, t := range requests {
		inbox[i] = tradeRequestResponse{
			RequestID: t.RequestID,
			FromUser:  t.FromUser,
			ToUser:    t.ToUser,
			Stock:     t.Stock,
			Quantity:  t.Quantity,
			Price:     t.Price,
			Direction: string(t.Direction),
			Status:    string(t.Status),
		}
	}

	WriteJSON(w, http.StatusOK, map[string][]tradeRequestResponse{"inbox": inbox})
}
