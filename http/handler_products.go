package http

import (
	"errors"
	"fmt"
	"net/http"
	"store/db"
	"store/entities"

	"github.com/labstack/echo/v4"
)

type createProductRequest struct {
	ProductID       string         `json:"product_id"`
	Name            string         `json:"name"`
	Price           entities.Money `json:"price"`
	InitialQuantity int            `json:"initial_quantity"`
}

// PostProducts onboards a product: the catalog entry and its stock record
// are created together.
func (h Handler) PostProducts(c echo.Context) error {
	var request createProductRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.ProductID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}
	if !request.Price.IsPositive() {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be positive")
	}
	if request.InitialQuantity < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "initial_quantity must not be negative")
	}

	ctx := c.Request().Context()

	err := h.productRepo.Create(ctx, entities.Product{
		ProductID: request.ProductID,
		Name:      request.Name,
		Price:     request.Price,
	})
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if err := h.ledger.Onboard(ctx, request.ProductID, request.InitialQuantity); err != nil {
		return fmt.Errorf("failed to onboard stock: %w", err)
	}

	return c.JSON(http.StatusCreated, entities.ProductCreateResponse{ProductID: request.ProductID})
}

type updatePriceRequest struct {
	Price entities.Money `json:"price"`
}

func (h Handler) PutProductPrice(c echo.Context) error {
	productID := c.Param("product_id")

	var request updatePriceRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if !request.Price.IsPositive() {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be positive")
	}

	err := h.productRepo.UpdatePrice(c.Request().Context(), productID, request.Price)
	if errors.Is(err, db.ErrProductNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update price: %w", err)
	}

	return c.NoContent(http.StatusNoContent)
}
