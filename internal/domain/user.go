package domain

import "time"

// User is a participant connected to a single exchange.
type User struct {
	UserID      string
	Name        string
	Cash        float64
	Assets      map[string]int64 // symbol → held quantity
	Value       float64          // cash + Σ quantity × price, recomputed each tick
	ConnectedAt time.Time
}

// NewUser creates a user with the given starting cash and no holdings.
func NewUser(id, name string, startingCash float64) *User {
	return &User{
		UserID:      id,
		Name:        name,
		Cash:        startingCash,
		Assets:      make(map[string]int64),
		Value:       startingCash,
		ConnectedAt: time.Now(),
	}
}

// Revalue recomputes the user's total portfolio value against the given
// prices. Holdings in symbols absent from the price map contribute nothing.
func (u *User) Revalue(prices map[string]float64) {
	value := u.Cash
	for symbol, quantity := range u.Assets {
		value += prices[symbol] * float64(quantity)
	}
	u.Value = value
}
