package handler

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/stocksim/internal/service"
)

// NewRouter creates a chi router with all routes registered, request logging,
// and Content-Type validation middleware.
func NewRouter(
	exchangeSvc *service.ExchangeService,
	orderSvc *service.OrderService,
	tradeSvc *service.TradeService,
	tickInterval time.Duration,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	exchangeH := NewExchangeHandler(exchangeSvc)
	orderH := NewOrderHandler(orderSvc)
	tradeH := NewTradeHandler(tradeSvc)
	streamH := NewStreamHandler(exchangeSvc, tickInterval, logger)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Exchange lifecycle.
	r.Post("/exchanges", exchangeH.Create)
	r.Post("/exchanges/{exchange_id}/start", exchangeH.Start)
	r.Post("/exchanges/{exchange_id}/pause", exchangeH.Pause)
	r.Post("/exchanges/{exchange_id}/resume", exchangeH.Resume)
	r.Post("/exchanges/{exchange_id}/stop", exchangeH.Stop)

	// Market data and news.
	r.Get("/exchanges/{exchange_id}/market-data", exchangeH.MarketData)
	r.Get("/exchanges/{exchange_id}/stream", streamH.Stream)
	r.Post("/exchanges/{exchange_id}/news", exchangeH.AddNews)

	// Users.
	r.Post("/exchanges/{exchange_id}/connect", exchangeH.Connect)
	r.Get("/exchanges/{exchange_id}/users", exchangeH.ListUsers)

	// Orders and trade negotiation.
	r.Post("/exchanges/{exchange_id}/orders", orderH.PlaceOrder)
	r.Post("/exchanges/{exchange_id}/trades", tradeH.Propose)
	r.Post("/exchanges/{exchange_id}/trades/{request_id}/response", tradeH.Respond)
	r.Get("/exchanges/{exchange_id}/inbox/{user_id}", tradeH.Inbox)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrade take over the underlying connection.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT, and
// PATCH requests that carry a body. If the Content-Type header doesn't start
// with "application/json", it returns 400 Bad Request before the handler runs.
// Body-less POSTs (lifecycle endpoints) pass through.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) && r.ContentLength != 0 {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
