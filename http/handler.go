package http

import (
	"context"
	"store/entities"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
)

type Handler struct {
	commandBus   *cqrs.CommandBus
	ledger       StockLedger
	processor    StockProcessor
	orderService OrderService
	productRepo  ProductRepository
}

type StockLedger interface {
	CurrentQuantity(ctx context.Context, productID string) (int, error)
	Onboard(ctx context.Context, productID string, quantity int) error
}

type StockProcessor interface {
	DecreaseStock(ctx context.Context, cmd entities.DecreaseStock) (entities.InventoryItemView, error)
	UpdateStock(ctx context.Context, cmd entities.UpdateStock) (entities.InventoryItemView, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, customerEmail string, items []entities.OrderItem) (entities.OrderCreateResponse, error)
	OrderByID(ctx context.Context, orderID string) (entities.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
}

type ProductRepository interface {
	Create(ctx context.Context, product entities.Product) error
	ByID(ctx context.Context, productID string) (entities.Product, error)
	UpdatePrice(ctx context.Context, productID string, newPrice entities.Money) error
}
