package domain

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Exchange is one isolated simulated market: its own stocks, users, news
// queue, and tick loop. Every mutable field is guarded by Mu; the simulation
// loop, order execution, and trade settlement all serialize through it.
type Exchange struct {
	ExchangeID string
	Prices     map[string]float64 // symbol → current price
	Users      map[string]*User   // user_id → user
	News       []NewsHeadline     // FIFO queue of pending headlines
	TickCount  int64
	Settings   DifficultySettings
	Started    bool
	CreatedAt  time.Time

	// Rand is the exchange's private RNG. Each exchange gets its own seed so
	// price trajectories never correlate across exchanges.
	Rand *rand.Rand

	// Cancel stops the exchange's simulation loop. Nil until Start.
	Cancel context.CancelFunc

	Mu sync.Mutex
}

// NewExchange creates an exchange in the not-started state with its own
// seeded RNG.
func NewExchange(id string, seed int64) *Exchange {
	return &Exchange{
		ExchangeID: id,
		Prices:     make(map[string]float64),
		Users:      make(map[string]*User),
		News:       make([]NewsHeadline, 0),
		Rand:       rand.New(rand.NewSource(seed)),
		CreatedAt:  time.Now(),
	}
}

// PushNews appends a headline to the news queue. Caller must hold Mu.
func (e *Exchange) PushNews(h NewsHeadline) {
	e.News = append(e.News, h)
}

// PopNews dequeues the oldest headline. Returns false if the queue is empty.
// Caller must hold Mu.
func (e *Exchange) PopNews() (NewsHeadline, bool) {
	if len(e.News) == 0 {
		return NewsHeadline{}, false
	}
	h := e.News[0]
	e.News = e.News[1:]
	return h, true
}
