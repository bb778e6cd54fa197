package domain

import "time"

// TradeStatus represents the lifecycle state of a trade request.
type TradeStatus string

const (
	TradeStatusPending  TradeStatus = "pending"
	TradeStatusAccepted TradeStatus = "accepted"
	TradeStatusDeclined TradeStatus = "declined"
)

// TradeRequest is a direct two-party trade proposal. The proposal fields are
// immutable after creation; only Status changes, exactly once, when the
// receiver responds. Direction is the sender's intended action: SideSell
// means the sender delivers stock and the receiver pays, SideBuy the
// opposite.
type TradeRequest struct {
	RequestID  string
	ExchangeID string
	FromUser   string
	ToUser     string
	Stock      string
	Quantity   int64
	Price      float64 // agreed price per share, fixed at proposal time
	Direction  Side
	Status     TradeStatus
	CreatedAt  time.Time
}

// Payer returns the user id of the party that pays cash on settlement.
func (t *TradeRequest) Payer() string {
	if t.Direction == SideSell {
		return t.ToUser
	}
	return t.FromUser
}

// Deliverer returns the user id of the party that delivers stock on
// settlement.
func (t *TradeRequest) Deliverer() string {
	if t.Direction == SideSell {
		return t.FromUser
	}
	return t.ToUser
}
