package entities

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: uuid.NewString(),
	}
}

func NewEventHeaderWithIdempotencyKey(idempotencyKey string) EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

// IEvent routes an event to the public or the service-internal topic space.
type IEvent interface {
	IsInternal() bool
}

// OrderCreated is published after the order row is durably committed,
// through the outbox in the same transaction.
type OrderCreated struct {
	Header EventHeader `json:"header"`

	OrderID    string      `json:"order_id"`
	TotalPrice Money       `json:"total_price"`
	Items      []OrderItem `json:"items"`
}

func (OrderCreated) IsInternal() bool { return false }

type ProductPriceUpdated struct {
	Header EventHeader `json:"header"`

	ProductID string `json:"product_id"`
	OldPrice  Money  `json:"old_price"`
	NewPrice  Money  `json:"new_price"`
}

func (ProductPriceUpdated) IsInternal() bool { return false }

// StockUpdated is emitted by the stock ledger after every successful apply.
type StockUpdated struct {
	Header EventHeader `json:"header"`

	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

func (StockUpdated) IsInternal() bool { return false }

type OrderStatusChanged struct {
	Header EventHeader `json:"header"`

	OrderID   string      `json:"order_id"`
	NewStatus OrderStatus `json:"new_status"`
}

func (OrderStatusChanged) IsInternal() bool { return false }

// OrderStockReserved confirms that stock was decremented for every line
// item of the order.
type OrderStockReserved struct {
	Header EventHeader `json:"header"`

	OrderID string `json:"order_id"`
}

func (OrderStockReserved) IsInternal() bool { return true }

type OrderStockReservationFailed struct {
	Header EventHeader `json:"header"`

	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

func (OrderStockReservationFailed) IsInternal() bool { return true }

type OrderPaymentAuthorized struct {
	Header EventHeader `json:"header"`

	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
}

func (OrderPaymentAuthorized) IsInternal() bool { return true }

type OrderPaymentDeclined struct {
	Header EventHeader `json:"header"`

	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

func (OrderPaymentDeclined) IsInternal() bool { return true }

// Event is the archived form stored in the events data lake.
type Event struct {
	Header EventHeader

	EventID   string
	EventName string
	Payload   []byte
}
