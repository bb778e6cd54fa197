package service

import (
	"testing"
	"time"

	"github.com/efreitasn/stocksim/internal/engine"
	"github.com/efreitasn/stocksim/internal/store"
)

// testStartingCash matches the default configured starting cash.
const testStartingCash = 10000.0

// testEnv bundles the services under test. The simulator tick interval is
// one hour so background loops never fire during a test; lifecycle behavior
// is still real (launch, cancel, registry removal).
type testEnv struct {
	registry    *store.ExchangeRegistry
	trades      *store.TradeRequestStore
	exchangeSvc *ExchangeService
	orderSvc    *OrderService
	tradeSvc    *TradeService
}

func newTestEnv() *testEnv {
	registry := store.NewExchangeRegistry()
	trades := store.NewTradeRequestStore()
	sim := engine.NewSimulator(registry, time.Hour, 10, nil)

	return &testEnv{
		registry:    registry,
		trades:      trades,
		exchangeSvc: NewExchangeService(registry, sim, testStartingCash),
		orderSvc:    NewOrderService(registry),
		tradeSvc:    NewTradeService(registry, trades),
	}
}

// startedExchange creates and starts an exchange with stocks A and B at
// difficulty 1 and registers a cleanup that cancels its loop.
func (env *testEnv) startedExchange(t *testing.T) string {
	t.Helper()
	id := env.exchangeSvc.Create()
	err := env.exchangeSvc.Start(StartExchangeRequest{
		ExchangeID:      id,
		Stocks:          []string{"A", "B"},
		Difficulty:      1,
		DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(func() { _ = env.exchangeSvc.Stop(id) })
	return id
}

// connect registers a user and returns its id.
func (env *testEnv) connect(t *testing.T, exchangeID, name string) string {
	t.Helper()
	u, err := env.exchangeSvc.ConnectUser(exchangeID, name)
	if err != nil {
		t.Fatalf("ConnectUser(%q) error: %v", name, err)
	}
	return u.UserID
}

// price reads the current price of a stock under the exchange lock.
func (env *testEnv) price(t *testing.T, exchangeID, stock string) float64 {
	t.Helper()
	e, err := env.registry.Get(exchangeID)
	if err != nil {
		t.Fatalf("Get(%q) error: %v", exchangeID, err)
	}
	e.Mu.Lock()
	defer e.Mu.Unlock()
	return e.Prices[stock]
}

// user reads a snapshot of a user's account under the exchange lock.
func (env *testEnv) user(t *testing.T, exchangeID, userID string) (cash float64, assets map[string]int64) {
	t.Helper()
	e, err := env.registry.Get(exchangeID)
	if err != nil {
		t.Fatalf("Get(%q) error: %v", exchangeID, err)
	}
	e.Mu.Lock()
	defer e.Mu.Unlock()
	u, ok := e.Users[userID]
	if !ok {
		t.Fatalf("user %q not found", userID)
	}
	assets = make(map[string]int64, len(u.Assets))
	for s, q := range u.Assets {
		assets[s] = q
	}
	return u.Cash, assets
}

// grant gives a user holdings directly, bypassing order execution.
func (env *testEnv) grant(t *testing.T, exchangeID, userID, stock string, quantity int64) {
	t.Helper()
	e, err := env.registry.Get(exchangeID)
	if err != nil {
		t.Fatalf("Get(%q) error: %v", exchangeID, err)
	}
	e.Mu.Lock()
	defer e.Mu.Unlock()
	e.Users[userID].Assets[stock] += quantity
}
