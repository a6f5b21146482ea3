package http

import (
	"net/http"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func NewHttpRouter(
	commandBus *cqrs.CommandBus,
	ledger StockLedger,
	processor StockProcessor,
	orderService OrderService,
	productRepo ProductRepository,
) *echo.Echo {
	e := libHttp.NewEcho()
	e.Use(otelecho.Middleware("store"))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler := Handler{
		commandBus:   commandBus,
		ledger:       ledger,
		processor:    processor,
		orderService: orderService,
		productRepo:  productRepo,
	}

	e.POST("/products", handler.PostProducts)
	e.PUT("/products/:product_id/price", handler.PutProductPrice)

	e.GET("/stock/:product_id", handler.GetStock)
	e.POST("/stock/decrease", handler.PostStockDecrease)
	e.POST("/stock/restock", handler.PostStockRestock)

	e.POST("/orders", handler.PostOrders)
	e.GET("/orders/:order_id", handler.GetOrderByID)
	e.PUT("/orders/:order_id/cancel", handler.PutOrderCancel)

	return e
}
