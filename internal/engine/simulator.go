package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/efreitasn/stocksim/internal/domain"
	"github.com/efreitasn/stocksim/internal/store"
)

// Simulator advances exchanges through discrete market ticks. Each started
// exchange gets one background goroutine that runs until the configured
// duration elapses or the exchange's context is cancelled, then removes the
// exchange from the registry.
type Simulator struct {
	registry        *store.ExchangeRegistry
	tickInterval    time.Duration
	newsImpactTicks int
	logger          *slog.Logger
}

// NewSimulator creates a Simulator. tickInterval is the wall-clock length of
// one tick; newsImpactTicks is how many ticks a news headline's decay effect
// lasts.
func NewSimulator(registry *store.ExchangeRegistry, tickInterval time.Duration, newsImpactTicks int, logger *slog.Logger) *Simulator {
	return &Simulator{
		registry:        registry,
		tickInterval:    tickInterval,
		newsImpactTicks: newsImpactTicks,
		logger:          logger,
	}
}

// TickInterval returns the wall-clock length of one tick.
func (s *Simulator) TickInterval() time.Duration {
	return s.tickInterval
}

// Launch starts the simulation loop for an exchange. The caller must hold
// e.Mu and have initialized prices and settings. The loop runs for at most
// duration of simulated (started) time.
func (s *Simulator) Launch(e *domain.Exchange, duration time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	e.Cancel = cancel
	go s.run(ctx, e, duration)
}

func (s *Simulator) run(ctx context.Context, e *domain.Exchange, duration time.Duration) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	var effects []*DecayEffect

	for {
		select {
		case <-ctx.Done():
			s.teardown(e, "stopped")
			return
		case <-ticker.C:
			var done bool
			effects, done = s.step(e, effects, duration)
			if done {
				s.teardown(e, "duration elapsed")
				return
			}
		}
	}
}

// step performs one tick under the exchange lock. It returns the surviving
// decay effects and whether the simulation has reached its end of life.
// While the exchange is paused nothing is mutated, including the tick
// counter, so a paused exchange never times out.
func (s *Simulator) step(e *domain.Exchange, effects []*DecayEffect, duration time.Duration) ([]*DecayEffect, bool) {
	e.Mu.Lock()
	defer e.Mu.Unlock()

	if !e.Started {
		return effects, false
	}

	if time.Duration(e.TickCount)*s.tickInterval >= duration {
		return effects, true
	}

	// Ambient drift is suppressed while any decay effect is in flight.
	if len(effects) == 0 {
		for symbol := range e.Prices {
			e.Prices[symbol] += e.Rand.NormFloat64() * e.Settings.PriceStdDev
		}
	}

	kept := effects[:0]
	for _, effect := range effects {
		e.Prices[effect.Stock] = effect.Apply(e.Prices[effect.Stock])
		if !effect.Exhausted() {
			kept = append(kept, effect)
		}
	}

	if headline, ok := e.PopNews(); ok {
		impact := e.Settings.MinNewsImpact + e.Rand.Float64()*(e.Settings.MaxNewsImpact-e.Settings.MinNewsImpact)
		kept = append(kept, NewDecayEffect(headline.Stock, impact, s.newsImpactTicks, headline.Sentiment))
	}

	for _, u := range e.Users {
		u.Revalue(e.Prices)
	}

	e.TickCount++
	return kept, false
}

// teardown transitions the exchange to terminated and removes it from the
// registry. Requests arriving afterwards see exchange_not_found.
func (s *Simulator) teardown(e *domain.Exchange, reason string) {
	e.Mu.Lock()
	e.Started = false
	ticks := e.TickCount
	e.Mu.Unlock()

	s.registry.Remove(e.ExchangeID)
	if s.logger != nil {
		s.logger.Info("simulation ended",
			slog.String("exchange_id", e.ExchangeID),
			slog.String("reason", reason),
			slog.Int64("ticks", ticks),
		)
	}
}
