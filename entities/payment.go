package entities

import "time"

type PaymentStatus string

// Declines create no record, so authorized is the only status ever stored.
const PaymentStatusAuthorized PaymentStatus = "authorized"

// PaymentRecord is immutable once its status is terminal; repeated
// authorization attempts for the same order return the existing record.
type PaymentRecord struct {
	PaymentID    string        `json:"payment_id" db:"payment_id"`
	OrderID      string        `json:"order_id" db:"order_id"`
	Amount       Money         `json:"amount" db:"amount"`
	Status       PaymentStatus `json:"status" db:"status"`
	AuthorizedAt time.Time     `json:"authorized_at" db:"authorized_at"`
}
