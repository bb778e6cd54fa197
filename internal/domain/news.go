package domain

// Sentiment is the direction of a news headline's influence on a stock.
type Sentiment string

const (
	SentimentUp   Sentiment = "up"
	SentimentDown Sentiment = "down"
)

// NewsHeadline is an immutable news event targeting one stock. Headlines are
// queued on the exchange and consumed one per tick by the simulation loop.
type NewsHeadline struct {
	Stock     string
	Sentiment Sentiment
}
