package store

import (
	"math/rand"
	"sync"
	"time"

	"github.com/efreitasn/stocksim/internal/domain"
)

// exchangeIDLength is the length of the join code identifying an exchange.
const exchangeIDLength = 6

const exchangeIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ExchangeRegistry is the process-scoped, thread-safe mapping from exchange
// id to exchange. An exchange exists exactly as long as its registry entry:
// Remove is invoked by the terminating simulation loop.
//
// The registry's mutex guards only the map itself and is never held together
// with an individual exchange's lock.
type ExchangeRegistry struct {
	mu        sync.RWMutex
	exchanges map[string]*domain.Exchange
	rnd       *rand.Rand // seeds per-exchange RNGs and generates join codes
}

// NewExchangeRegistry creates an empty registry.
func NewExchangeRegistry() *ExchangeRegistry {
	return &ExchangeRegistry{
		exchanges: make(map[string]*domain.Exchange),
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Create generates a unique join code, installs a fresh not-started exchange
// under it, and returns the exchange.
func (r *ExchangeRegistry) Create() *domain.Exchange {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for _, exists := r.exchanges[id]; exists; _, exists = r.exchanges[id] {
		id = r.newID()
	}

	e := domain.NewExchange(id, r.rnd.Int63())
	r.exchanges[id] = e
	return e
}

// Get retrieves an exchange by id. It returns domain.ErrExchangeNotFound if
// the exchange does not exist.
func (r *ExchangeRegistry) Get(id string) (*domain.Exchange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.exchanges[id]
	if !ok {
		return nil, domain.ErrExchangeNotFound
	}
	return e, nil
}

// Remove deletes an exchange from the registry. Removing an id that is not
// present is a no-op.
func (r *ExchangeRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.exchanges, id)
}

// Snapshot returns all registered exchanges. Used for shutdown.
func (r *ExchangeRegistry) Snapshot() []*domain.Exchange {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Exchange, 0, len(r.exchanges))
	for _, e := range r.exchanges {
		result = append(result, e)
	}
	return result
}

// Len returns the number of registered exchanges.
func (r *ExchangeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.exchanges)
}

func (r *ExchangeRegistry) newID() string {
	buf := make([]byte, exchangeIDLength)
	for i := range buf {
		buf[i] = exchangeIDAlphabet[r.rnd.Intn(len(exchangeIDAlphabet))]
	}
	return string(buf)
}
