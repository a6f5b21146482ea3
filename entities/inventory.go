package entities

// InventoryItem is the per-product stock record. Quantity never goes below
// zero; Version backs the optimistic concurrency check on every write.
type InventoryItem struct {
	ProductID string `json:"product_id" db:"product_id"`
	Quantity  int    `json:"quantity" db:"quantity"`
	Version   int    `json:"version" db:"version"`
}

type InventoryItemView struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// StockCommandResult is the outcome stored per idempotency key so a
// redelivered command returns the originally computed result.
type StockCommandResult struct {
	DedupKey  string `json:"dedup_key" db:"dedup_key"`
	ProductID string `json:"product_id" db:"product_id"`
	Quantity  int    `json:"quantity" db:"quantity"`
	Rejected  bool   `json:"rejected" db:"rejected"`
}
