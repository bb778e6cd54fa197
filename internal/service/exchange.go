package service

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/efreitasn/stocksim/internal/domain"
	"github.com/efreitasn/stocksim/internal/engine"
	"github.com/efreitasn/stocksim/internal/store"
)

var (
	symbolRegex = regexp.MustCompile(`^[A-Z]{1,10}$`)
	nameRegex   = regexp.MustCompile(`^[a-zA-Z0-9 _-]{1,32}$`)
)

// Starting prices are drawn uniformly from [startingPriceMin,
// startingPriceMin+startingPriceSpan) as whole dollars.
const (
	startingPriceMin  = 50
	startingPriceSpan = 100
)

// StartExchangeRequest represents the input for starting a simulation.
type StartExchangeRequest struct {
	ExchangeID      string
	Stocks          []string
	Difficulty      int
	DurationMinutes float64
}

// NewsRequest represents the input for publishing a news headline.
type NewsRequest struct {
	ExchangeID string
	Stock      string
	Sentiment  domain.Sentiment
}

// UserDetail is a point-in-time view of one user's account.
type UserDetail struct {
	UserID string
	Name   string
	Cash   float64
	Assets map[string]int64
	Value  float64
}

// MarketSnapshot is a consistent point-in-time view of an exchange: all
// prices and all user accounts as of the same tick.
type MarketSnapshot struct {
	ExchangeID string
	Tick       int64
	Prices     map[string]float64
	Users      []UserDetail
}

// ExchangeService handles exchange lifecycle, market data, news, and users.
type ExchangeService struct {
	registry     *store.ExchangeRegistry
	sim          *engine.Simulator
	startingCash float64
}

// NewExchangeService creates a new ExchangeService.
func NewExchangeService(registry *store.ExchangeRegistry, sim *engine.Simulator, startingCash float64) *ExchangeService {
	return &ExchangeService{
		registry:     registry,
		sim:          sim,
		startingCash: startingCash,
	}
}

// Create installs a fresh not-started exchange and returns its id.
func (s *ExchangeService) Create() string {
	return s.registry.Create().ExchangeID
}

// Start initializes prices and difficulty settings and launches the
// simulation loop. Starting an exchange that is already running returns
// domain.ErrExchangeAlreadyStarted.
func (s *ExchangeService) Start(req StartExchangeRequest) error {
	if len(req.Stocks) == 0 {
		return &domain.ValidationError{Message: "stocks must be a non-empty list"}
	}
	seen := make(map[string]bool)
	for _, symbol := range req.Stocks {
		if !symbolRegex.MatchString(symbol) {
			return &domain.ValidationError{Message: fmt.Sprintf("stock symbol must match ^[A-Z]{1,10}$, got %q", symbol)}
		}
		if seen[symbol] {
			return &domain.ValidationError{Message: fmt.Sprintf("duplicate stock symbol: %s", symbol)}
		}
		seen[symbol] = true
	}
	settings, ok := domain.DifficultyFor(req.Difficulty)
	if !ok {
		return &domain.ValidationError{Message: fmt.Sprintf("difficulty must be between %d and %d", domain.MinDifficulty, domain.MaxDifficulty)}
	}
	if req.DurationMinutes <= 0 {
		return &domain.ValidationError{Message: "duration_minutes must be > 0"}
	}

	e, err := s.registry.Get(req.ExchangeID)
	if err != nil {
		return err
	}

	e.Mu.Lock()
	defer e.Mu.Unlock()

	if e.Cancel != nil {
		return domain.ErrExchangeAlreadyStarted
	}

	for _, symbol := range req.Stocks {
		e.Prices[symbol] = float64(startingPriceMin + e.Rand.Intn(startingPriceSpan))
	}
	e.Settings = settings
	e.TickCount = 0
	e.Started = true

	duration := time.Duration(req.DurationMinutes * float64(time.Minute))
	s.sim.Launch(e, duration)
	return nil
}

// Pause suspends simulation. Orders and trades are rejected while paused.
// Pausing a paused exchange is a no-op.
func (s *ExchangeService) Pause(exchangeID string) error {
	return s.setStarted(exchangeID, false)
}

// Resume restarts a paused simulation. Resuming a running exchange is a
// no-op.
func (s *ExchangeService) Resume(exchangeID string) error {
	return s.setStarted(exchangeID, true)
}

func (s *ExchangeService) setStarted(exchangeID string, started bool) error {
	e, err := s.registry.Get(exchangeID)
	if err != nil {
		return err
	}

	e.Mu.Lock()
	defer e.Mu.Unlock()
	e.Started = started
	return nil
}

// Stop cancels the exchange's simulation loop. The loop performs final
// cleanup and removes the exchange from the registry on its next pass;
// stopping an already-stopping exchange is harmless.
func (s *ExchangeService) Stop(exchangeID string) error {
	e, err := s.registry.Get(exchangeID)
	if err != nil {
		return err
	}

	e.Mu.Lock()
	defer e.Mu.Unlock()
	if e.Cancel != nil {
		e.Cancel()
	}
	return nil
}

// MarketData returns a consistent snapshot of prices and user accounts.
// It returns domain.ErrExchangeNotStarted while the simulation is paused or
// not yet started.
func (s *ExchangeService) MarketData(exchangeID string) (*MarketSnapshot, error) {
	e, err := s.registry.Get(exchangeID)
	if err != nil {
		return nil, err
	}

	e.Mu.Lock()
	defer e.Mu.Unlock()

	if !e.Started {
		return nil, domain.ErrExchangeNotStarted
	}

	prices := make(map[string]float64, len(e.Prices))
	for symbol, price := range e.Prices {
		prices[symbol] = price
	}

	users := make([]UserDetail, 0, len(e.Users))
	for _, u := range e.Users {
		users = append(users, newUserDetail(u))
	}

	return &MarketSnapshot{
		ExchangeID: e.ExchangeID,
		Tick:       e.TickCount,
		Prices:     prices,
		Users:      users,
	}, nil
}

// AddNews queues a headline for the simulation loop to pick up. The headline
// takes effect one tick after it is dequeued, fading over the configured
// impact duration.
func (s *ExchangeService) AddNews(req NewsRequest) error {
	if req.Sentiment != domain.SentimentUp && req.Sentiment != domain.SentimentDown {
		return &domain.ValidationError{Message: "sentiment must be 'up' or 'down'"}
	}

	e, err := s.registry.Get(req.ExchangeID)
	if err != nil {
		return err
	}

	e.Mu.Lock()
	defer e.Mu.Unlock()

	if _, ok := e.Prices[req.Stock]; !ok {
		return domain.ErrStockNotFound
	}
	e.PushNews(domain.NewsHeadline{Stock: req.Stock, Sentiment: req.Sentiment})
	return nil
}

// ConnectUser registers a user on the exchange with the configured starting
// cash. Display names are unique per exchange.
func (s *ExchangeService) ConnectUser(exchangeID, name string) (*UserDetail, error) {
	if !nameRegex.MatchString(name) {
		return nil, &domain.ValidationError{Message: "name must match ^[a-zA-Z0-9 _-]{1,32}$"}
	}

	e, err := s.registry.Get(exchangeID)
	if err != nil {
		return nil, err
	}

	e.Mu.Lock()
	defer e.Mu.Unlock()

	for _, u := range e.Users {
		if u.Name == name {
			return nil, domain.ErrNameTaken
		}
	}

	user := domain.NewUser(uuid.New().String(), name, s.startingCash)
	e.Users[user.UserID] = user

	detail := newUserDetail(user)
	return &detail, nil
}

// ListUsers returns the ids of all users connected to the exchange.
func (s *ExchangeService) ListUsers(exchangeID string) ([]string, error) {
	e, err := s.registry.Get(exchangeID)
	if err != nil {
		return nil, err
	}

	e.Mu.Lock()
	defer e.Mu.Unlock()

	ids := make([]string, 0, len(e.Users))
	for id := range e.Users {
		ids = append(ids, id)
	}
	return ids, nil
}

// Shutdown cancels every running simulation loop. Used on process shutdown.
func (s *ExchangeService) Shutdown() {
	for _, e := range s.registry.Snapshot() {
		e.Mu.Lock()
		if e.Cancel != nil {
			e.Cancel()
		}
		e.Mu.Unlock()
	}
}

func newUserDetail(u *domain.User) UserDetail {
	assets := make(map[string]int64, len(u.Assets))
	for symbol, quantity := range u.Assets {
		assets[symbol] = quantity
	}
	return UserDetail{
		UserID: u.UserID,
		Name:   u.Name,
		Cash:   u.Cash,
		Assets: assets,
		Value:  u.Value,
	}
}
