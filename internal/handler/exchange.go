package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/stocksim/internal/domain"
	"github.com/efreitasn/stocksim/internal/service"
)

// ExchangeHandler handles HTTP requests for exchange lifecycle, market data,
// news, and users.
type ExchangeHandler struct {
	exchangeSvc *service.ExchangeService
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(exchangeSvc *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeSvc: exchangeSvc}
}

// startExchangeRequest is the JSON request body for POST /exchanges/{id}/start.
type startExchangeRequest struct {
	Stocks          []string `json:"stocks"`
	Difficulty      int      `json:"difficulty"`
	DurationMinutes float64  `json:"duration_minutes"`
}

// newsRequest is the JSON request body for POST /exchanges/{id}/news.
type newsRequest struct {
	Stock     string `json:"stock"`
	Sentiment string `json:"sentiment"`
}

// connectRequest is the JSON request body for POST /exchanges/{id}/connect.
type connectRequest struct {
	Name string `json:"name"`
}

// userDetailResponse is one user's account in JSON responses.
type userDetailResponse struct {
	UserID string           `json:"user_id"`
	Name   string           `json:"name"`
	Cash   float64          `json:"cash"`
	Assets map[string]int64 `json:"assets"`
	Value  float64          `json:"value"`
}

// marketDataResponse is the JSON response for GET /exchanges/{id}/market-data.
type marketDataResponse struct {
	ExchangeID string               `json:"exchange_id"`
	Tick       int64                `json:"tick"`
	Prices     map[string]float64   `json:"prices"`
	Details    []userDetailResponse `json:"details"`
}

// Create handles POST /exchanges.
func (h *ExchangeHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := h.exchangeSvc.Create()
	WriteJSON(w, http.StatusCreated, map[string]string{"exchange_id": id})
}

// Start handles POST /exchanges/{exchange_id}/start.
func (h *ExchangeHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startExchangeRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	exchangeID := chi.URLParam(r, "exchange_id")
	err := h.exchangeSvc.Start(service.StartExchangeRequest{
		ExchangeID:      exchangeID,
		Stocks:          req.Stocks,
		Difficulty:      req.Difficulty,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"exchange_id": exchangeID, "status": "started"})
}

// Pause handles POST /exchanges/{exchange_id}/pause.
func (h *ExchangeHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.exchangeSvc.Pause, "paused")
}

// Resume handles POST /exchanges/{exchange_id}/resume.
func (h *ExchangeHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.exchangeSvc.Resume, "resumed")
}

// Stop handles POST /exchanges/{exchange_id}/stop.
func (h *ExchangeHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.exchangeSvc.Stop, "stopping")
}

func (h *ExchangeHandler) lifecycle(w http.ResponseWriter, r *http.Request, op func(string) error, status string) {
	exchangeID := chi.URLParam(r, "exchange_id")
	if err := op(exchangeID); err != nil {
		mapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"exchange_id": exchangeID, "status": status})
}

// MarketData handles GET /exchanges/{exchange_id}/market-data.
func (h *ExchangeHandler) MarketData(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.exchangeSvc.MarketData(chi.URLParam(r, "exchange_id"))
	if err != nil {
		mapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildMarketDataResponse(snapshot))
}

// AddNews handles POST /exchanges/{exchange_id}/news.
func (h *ExchangeHandler) AddNews(w http.ResponseWriter, r *http.Request) {
	var req newsRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	err := h.exchangeSvc.AddNews(service.NewsRequest{
		ExchangeID: chi.URLParam(r, "exchange_id"),
		Stock:      req.Stock,
		Sentiment:  domain.Sentiment(req.Sentiment),
	})
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "queued"})
}

// Connect handles POST /exchanges/{exchange_id}/connect.
func (h *ExchangeHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, err := h.exchangeSvc.ConnectUser(chi.URLParam(r, "exchange_id"), req.Name)
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildUserDetailResponse(*user))
}

// ListUsers handles GET /exchanges/{exchange_id}/users.
func (h *ExchangeHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.exchangeSvc.ListUsers(chi.URLParam(r, "exchange_id"))
	if err != nil {
		mapError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]string{"users": users})
}

func buildMarketDataResponse(s *service.MarketSnapshot) marketDataResponse {
	details := make([]userDetailResponse, len(s.Users))
	for i, u := range s.Users {
		details[i] = buildUserDetailResponse(u)
	}
	return marketDataResponse{
		ExchangeID: s.ExchangeID,
		Tick:       s.Tick,
		Prices:     s.Prices,
		Details:    details,
	}
}

func buildUserDetailResponse(u service.UserDetail) userDetailResponse {
	return userDetailResponse{
		UserID: u.UserID,
		Name:   u.Name,
		Cash:   u.Cash,
		Assets: u.Assets,
		Value:  u.Value,
	}
}
