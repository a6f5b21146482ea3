package http

import (
	"errors"
	"fmt"
	"net/http"
	"store/entities"
	"store/orders"

	"github.com/labstack/echo/v4"
)

type createOrderRequest struct {
	CustomerEmail string               `json:"customer_email"`
	Items         []entities.OrderItem `json:"items"`
}

func (h Handler) PostOrders(c echo.Context) error {
	var request createOrderRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	response, err := h.orderService.CreateOrder(c.Request().Context(), request.CustomerEmail, request.Items)
	if errors.Is(err, orders.ErrOrderIsEmpty) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return c.JSON(http.StatusCreated, response)
}

func (h Handler) GetOrderByID(c echo.Context) error {
	orderID := c.Param("order_id")

	order, err := h.orderService.OrderByID(c.Request().Context(), orderID)
	if errors.Is(err, orders.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h Handler) PutOrderCancel(c echo.Context) error {
	orderID := c.Param("order_id")

	err := h.orderService.CancelOrder(c.Request().Context(), orderID)
	switch {
	case errors.Is(err, orders.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	case errors.Is(err, orders.ErrAlreadyCompleted):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case err != nil:
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	return c.NoContent(http.StatusAccepted)
}
