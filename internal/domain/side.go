package domain

// Side indicates the acting party's intent: buy or sell. It is used both for
// immediate orders against the market price and as the sender's direction in
// a trade request.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)
