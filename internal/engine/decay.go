package engine

import "github.com/efreitasn/stocksim/internal/domain"

// DecayEffect models the fading influence of one news headline on a single
// stock. The total impact is sampled once at creation and spread over a
// fixed number of ticks: each tick applies a multiplier derived from the
// impact still to be delivered and the ticks left, so the cumulative
// multiplicative effect over the full duration lands exactly on TotalImpact
// (or its reciprocal for down sentiment), independent of duration.
type DecayEffect struct {
	Stock       string
	TotalImpact float64
	Sentiment   domain.Sentiment

	remainingImpact float64
	remainingTicks  int
}

// NewDecayEffect creates an effect that delivers totalImpact over duration
// ticks. totalImpact must be >= 1 and duration >= 1.
func NewDecayEffect(stock string, totalImpact float64, duration int, sentiment domain.Sentiment) *DecayEffect {
	return &DecayEffect{
		Stock:           stock,
		TotalImpact:     totalImpact,
		Sentiment:       sentiment,
		remainingImpact: totalImpact,
		remainingTicks:  duration,
	}
}

// Apply advances the effect by one tick and returns the adjusted price.
// Must not be called on an exhausted effect.
func (d *DecayEffect) Apply(price float64) float64 {
	perTick := (d.remainingImpact - 1) / float64(d.remainingTicks)
	multiplier := 1 + perTick

	d.remainingImpact /= multiplier
	d.remainingTicks--

	if d.Sentiment == domain.SentimentDown {
		return price / multiplier
	}
	return price * multiplier
}

// Exhausted reports whether the effect has run its full duration.
func (d *DecayEffect) Exhausted() bool {
	return d.remainingTicks <= 0
}

// RemainingTicks returns the number of ticks the effect has left.
func (d *DecayEffect) RemainingTicks() int {
	return d.remainingTicks
}
