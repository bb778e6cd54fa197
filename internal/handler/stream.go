package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/efreitasn/stocksim/internal/domain"
	"github.com/efreitasn/stocksim/internal/service"
)

// StreamHandler pushes market snapshots to WebSocket clients once per tick
// interval. The stream closes when the exchange is removed from the registry
// or the client goes away.
type StreamHandler struct {
	exchangeSvc *service.ExchangeService
	interval    time.Duration
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

// NewStreamHandler creates a new StreamHandler pushing one snapshot per
// interval.
func NewStreamHandler(exchangeSvc *service.ExchangeService, interval time.Duration, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		exchangeSvc: exchangeSvc,
		interval:    interval,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Browser clients connect from arbitrary origins in this game.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream handles GET /exchanges/{exchange_id}/stream.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	exchangeID := chi.URLParam(r, "exchange_id")

	// Reject unknown exchanges before upgrading so the client gets a proper
	// HTTP status instead of an immediately closed socket.
	if _, err := h.exchangeSvc.MarketData(exchangeID); errors.Is(err, domain.ErrExchangeNotFound) {
		mapError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return // Upgrade already wrote the error response.
	}
	defer conn.Close()

	// Reader goroutine: drains control frames and signals client disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			snapshot, err := h.exchangeSvc.MarketData(exchangeID)
			if errors.Is(err, domain.ErrExchangeNotFound) {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "exchange terminated")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
				return
			}
			if err != nil {
				continue // paused: keep the connection, skip the frame
			}
			if err := conn.WriteJSON(buildMarketDataResponse(snapshot)); err != nil {
				h.logger.Debug("stream write failed",
					slog.String("exchange_id", exchangeID),
					slog.String("error", err.Error()),
				)
				return
			}
		}
	}
}
