package http

import (
	"errors"
	"fmt"
	"net/http"
	"store/entities"
	"store/inventory"

	"github.com/labstack/echo/v4"
)

type stockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

func (h Handler) GetStock(c echo.Context) error {
	productID := c.Param("product_id")

	quantity, err := h.ledger.CurrentQuantity(c.Request().Context(), productID)
	if errors.Is(err, inventory.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get stock: %w", err)
	}

	return c.JSON(http.StatusOK, entities.InventoryItemView{
		ProductID: productID,
		Quantity:  quantity,
	})
}

// PostStockDecrease is the synchronous command path. Authentication happens
// upstream: the actor identity and role arrive as plain header values.
func (h Handler) PostStockDecrease(c echo.Context) error {
	var request stockRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Idempotency-Key header is required")
	}

	view, err := h.processor.DecreaseStock(c.Request().Context(), entities.DecreaseStock{
		Header:    entities.NewEventHeaderWithIdempotencyKey(idempotencyKey),
		ProductID: request.ProductID,
		Quantity:  request.Quantity,
		ActorID:   c.Request().Header.Get("X-Actor-ID"),
		ActorRole: entities.ActorRole(c.Request().Header.Get("X-Actor-Role")),
		Note:      request.Note,
	})

	switch {
	case errors.Is(err, inventory.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, inventory.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, inventory.ErrInsufficientStock):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case err != nil:
		return fmt.Errorf("failed to decrease stock: %w", err)
	}

	return c.JSON(http.StatusOK, view)
}

// PostStockRestock goes through the command bus: restocks are fire-and-forget
// for the caller and are applied by the command processor.
func (h Handler) PostStockRestock(c echo.Context) error {
	var request stockRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Idempotency-Key header is required")
	}
	if request.Quantity <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be positive")
	}

	cmd := entities.UpdateStock{
		Header:    entities.NewEventHeaderWithIdempotencyKey(idempotencyKey),
		ProductID: request.ProductID,
		Quantity:  request.Quantity,
	}

	if err := h.commandBus.Send(c.Request().Context(), cmd); err != nil {
		return fmt.Errorf("failed to send UpdateStock command: %w", err)
	}

	return c.NoContent(http.StatusAccepted)
}
