package service

import (
	"errors"
	"testing"
	"time"

	"github.com/efreitasn/stocksim/internal/domain"
)

func TestExchangeService_StartInitializesPrices(t *testing.T) {
	env := newTestEnv()
	id := env.startedExchange(t)

	snapshot, err := env.exchangeSvc.MarketData(id)
	if err != nil {
		t.Fatalf("MarketData() error: %v", err)
	}
	if len(snapshot.Prices) != 2 {
		t.Fatalf("Prices = %v, want 2 stocks", snapshot.Prices)
	}
	for symbol, price := range snapshot.Prices {
		if price < 50 || price >= 150 {
			t.Errorf("starting price for %s = %v, want in [50, 150)", symbol, price)
		}
	}
}

func TestExchangeService_Start_Validation(t *testing.T) {
	env := newTestEnv()
	id := env.exchangeSvc.Create()

	tests := []struct {
		name string
		req  StartExchangeRequest
	}{
		{"no stocks", StartExchangeRequest{ExchangeID: id, Stocks: nil, Difficulty: 1, DurationMinutes: 1}},
		{"bad symbol", StartExchangeRequest{ExchangeID: id, Stocks: []string{"aapl"}, Difficulty: 1, DurationMinutes: 1}},
		{"duplicate symbol", StartExchangeRequest{ExchangeID: id, Stocks: []string{"A", "A"}, Difficulty: 1, DurationMinutes: 1}},
		{"difficulty too low", StartExchangeRequest{ExchangeID: id, Stocks: []string{"A"}, Difficulty: 0, DurationMinutes: 1}},
		{"difficulty too high", StartExchangeRequest{ExchangeID: id, Stocks: []string{"A"}, Difficulty: 6, DurationMinutes: 1}},
		{"zero duration", StartExchangeRequest{ExchangeID: id, Stocks: []string{"A"}, Difficulty: 1, DurationMinutes: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.exchangeSvc.Start(tt.req)
			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("Start() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestExchangeService_Start_UnknownExchange(t *testing.T) {
	env := newTestEnv()
	err := env.exchangeSvc.Start(StartExchangeRequest{
		ExchangeID:      "NOPE42",
		Stocks:          []string{"A"},
		Difficulty:      1,
		DurationMinutes: 1,
	})
	if !errors.Is(err, domain.ErrExchangeNotFound) {
		t.Errorf("Start() error = %v, want ErrExchangeNotFound", err)
	}
}

func TestExchangeService_Start_Twice(t *testing.T) {
	env := newTestEnv()
	id := env.startedExchange(t)

	err := env.exchangeSvc.Start(StartExchangeRequest{
		ExchangeID:      id,
		Stocks:          []string{"C"},
		Difficulty:      1,
		DurationMinutes: 1,
	})
	if !errors.Is(err, domain.ErrExchangeAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrExchangeAlreadyStarted", err)
	}
}

func TestExchangeService_MarketData_NotStarted(t *testing.T) {
	env := newTestEnv()
	id := env.exchangeSvc.Create()

	_, err := env.exchangeSvc.MarketData(id)
	if !errors.Is(err, domain.ErrExchangeNotStarted) {
		t.Errorf("MarketData() error = %v, want ErrExchangeNotStarted", err)
	}
}

func TestExchangeService_PauseResume_Idempotent(t *testing.T) {
	env := newTestEnv()
	id := env.startedExchange(t)

	// Pause twice: same observable state as a single pause.
	for i := 0; i < 2; i++ {
		if err := env.exchangeSvc.Pause(id); err != nil {
			t.Fatalf("Pause() #%d error: %v", i+1, err)
		}
	}
	if _, err := env.exchangeSvc.MarketData(id); !errors.Is(err, domain.ErrExchangeNotStarted) {
		t.Errorf("MarketData() while paused error = %v, want ErrExchangeNotStarted", err)
	}

	for i := 0; i < 2; i++ {
		if err := env.exchangeSvc.Resume(id); err != nil {
			t.Fatalf("Resume() #%d error: %v", i+1, err)
		}
	}
	if _, err := env.exchangeSvc.MarketData(id); err != nil {
		t.Errorf("MarketData() after resume error: %v", err)
	}
}

func TestExchangeService_Stop_RemovesExchange(t *testing.T) {
	env := newTestEnv()
	id := env.startedExchange(t)

	if err := env.exchangeSvc.Stop(id); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		if _, err := env.registry.Get(id); errors.Is(err, domain.ErrExchangeNotFound) {
			break
		}
		select {
		case <-deadline:
			t.Fatal("exchange still registered after Stop()")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Any request after removal sees exchange_not_found.
	if _, err := env.exchangeSvc.MarketData(id); !errors.Is(err, domain.ErrExchangeNotFound) {
		t.Errorf("MarketData() after removal error = %v, want ErrExchangeNotFound", err)
	}
}

func TestExchangeService_ConnectUser(t *testing.T) {
	env := newTestEnv()
	id := env.startedExchange(t)

	u, err := env.exchangeSvc.ConnectUser(id, "alice")
	if err != nil {
		t.Fatalf("ConnectUser() error: %v", err)
	}
	if u.Cash != testStartingCash {
		t.Errorf("Cash = %v, want %v", u.Cash, testStartingCash)
	}
	if u.Value != testStartingCash {
		t.Errorf("Value = %v, want %v", u.Value, testStartingCash)
	}
	if u.UserID == "" {
		t.Error("UserID is empty")
	}
}

func TestExchangeService_ConnectUser_NameTaken(t *testing.T) {
	env := newTestEnv()
	id := env.startedExchange(t)
	env.connect(t, id, "alice")

	_, err := env.exchangeSvc.ConnectUser(id, "alice")
	if !errors.Is(err, domain.ErrNameTaken) {
		t.Errorf("ConnectUser() error = %v, want ErrNameTaken", err)
	}
}

func TestExchangeService_ConnectUser_SameNameDifferentExchanges(t *testing.T) {
	env := newTestEnv()
	id1 := env.startedExchange(t)
	id2 := env.startedExchange(t)

	env.connect(t, id1, "alice")
	env.connect(t, id2, "alice") // names are only unique per exchange
}

func TestExchangeService_ListUsers(t *testing.T) {
	env := newTestEnv()
	id := env.startedExchange(t)
	u1 := env.connect(t, id, "alice")
	u2 := env.connect(t, id, "bob")

	users, err := env.exchangeSvc.ListUsers(id)
	if err != nil {
		t.Fatalf("ListUsers() error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("ListUsers() = %v, want 2 users", users)
	}
	found := map[string]bool{users[0]: true, users[1]: true}
	if !found[u1] || !found[u2] {
		t.Errorf("ListUsers() = %v, missing connected users", users)
	}
}

func TestExchangeService_AddNews(t *testing.T) {
	env := newTestEnv()
	id := env.startedExchange(t)

	err := env.exchangeSvc.AddNews(NewsRequest{ExchangeID: id, Stock: "A", Sentiment: domain.SentimentUp})
	if err != nil {
		t.Fatalf("AddNews() error: %v", err)
	}

	e, _ := env.registry.Get(id)
	e.Mu.Lock()
	defer e.Mu.Unlock()
	if len(e.News) != 1 || e.News[0].Stock != "A" {
		t.Errorf("News = %v, want one headline for A", e.News)
	}
}

func TestExchangeService_AddNews_Validation(t *testing.T) {
	env := newTestEnv()
	id := env.startedExchange(t)

	err := env.exchangeSvc.AddNews(NewsRequest{ExchangeID: id, Stock: "A", Sentiment: "sideways"})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("AddNews() error = %v, want ValidationError", err)
	}

	err = env.exchangeSvc.AddNews(NewsRequest{ExchangeID: id, Stock: "MISSING", Sentiment: domain.SentimentDown})
	if !errors.Is(err, domain.ErrStockNotFound) {
		t.Errorf("AddNews() error = %v, want ErrStockNotFound", err)
	}
}
