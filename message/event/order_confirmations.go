package event

import (
	"context"
	"store/entities"
	"store/metrics"
)

func (h Handler) OnOrderStockReserved(ctx context.Context, event *entities.OrderStockReserved) error {
	return h.coordinator.OnStockReserved(ctx, event.OrderID, event.Header.PublishedAt)
}

func (h Handler) OnOrderStockReservationFailed(ctx context.Context, event *entities.OrderStockReservationFailed) error {
	return h.coordinator.OnStockReservationFailed(ctx, event.OrderID, event.Reason)
}

func (h Handler) OnOrderPaymentAuthorized(ctx context.Context, event *entities.OrderPaymentAuthorized) error {
	return h.coordinator.OnPaymentAuthorized(ctx, event.OrderID, event.Header.PublishedAt)
}

func (h Handler) OnOrderPaymentDeclined(ctx context.Context, event *entities.OrderPaymentDeclined) error {
	return h.coordinator.OnPaymentDeclined(ctx, event.OrderID, event.Reason)
}

func (h Handler) OnOrderStatusChanged(ctx context.Context, event *entities.OrderStatusChanged) error {
	metrics.OrderStatusTransitions.WithLabelValues(string(event.NewStatus)).Inc()
	return nil
}
