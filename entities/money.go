package entities

import "fmt"

// Money is an amount in the currency's minor unit (cents).
type Money struct {
	Amount   int64  `json:"amount" db:"amount"`
	Currency string `json:"currency" db:"currency"`
}

func (m Money) IsPositive() bool {
	return m.Amount > 0
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s != %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

func (m Money) MultiplyBy(quantity int) Money {
	return Money{Amount: m.Amount * int64(quantity), Currency: m.Currency}
}
