package entities

type ActorRole string

const (
	// RoleSystem is the service-internal identity used by event handlers.
	RoleSystem ActorRole = "system"
	// RoleStaff is a human operator allowed to adjust stock.
	RoleStaff ActorRole = "staff"
	// RoleCustomer must never mutate stock directly.
	RoleCustomer ActorRole = "customer"
)

// DecreaseStock carries the requester identity so every mutation is
// attributable. The header's idempotency key dedups redeliveries.
type DecreaseStock struct {
	Header EventHeader `json:"header"`

	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	ActorID   string    `json:"actor_id"`
	ActorRole ActorRole `json:"actor_role"`
	Note      string    `json:"note,omitempty"`
}

type UpdateStock struct {
	Header EventHeader `json:"header"`

	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
