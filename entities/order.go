package entities

import "time"

type OrderStatus string

const (
	OrderStatusCreated           OrderStatus = "created"
	OrderStatusStockReserved     OrderStatus = "stock_reserved"
	OrderStatusPaymentAuthorized OrderStatus = "payment_authorized"
	OrderStatusCompleted         OrderStatus = "completed"
	OrderStatusCancelled         OrderStatus = "cancelled"
	OrderStatusFailed            OrderStatus = "failed"
)

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled || s == OrderStatusFailed
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type Order struct {
	OrderID       string      `json:"order_id"`
	CustomerEmail string      `json:"customer_email"`
	Items         []OrderItem `json:"items"`
	TotalPrice    Money       `json:"total_price"`
	Status        OrderStatus `json:"status"`

	StockReservedAt     *time.Time `json:"stock_reserved_at,omitempty"`
	PaymentAuthorizedAt *time.Time `json:"payment_authorized_at,omitempty"`
	FailureReason       string     `json:"failure_reason,omitempty"`
}

type OrderCreateResponse struct {
	OrderID string `json:"order_id"`
}

func (o Order) ContainsProduct(productID string) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
