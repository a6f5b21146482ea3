package tests

import (
	"context"
	"net/http"
	"os"
	"store/db"
	"store/message"
	"store/service"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent(t *testing.T) {
	if os.Getenv("REDIS_ADDR") == "" || os.Getenv("POSTGRES_URL") == "" {
		t.Skip("REDIS_ADDR and POSTGRES_URL are required for the component test")
	}

	conn, err := db.NewDBConn(os.Getenv("POSTGRES_URL"))
	require.NoError(t, err)
	defer conn.Close()
	conn.MigrateSchema()

	rdb := message.NewRedisClient(os.Getenv("REDIS_ADDR"))
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		assert.NoError(t, service.New(rdb, conn).Run(ctx))
	}()
	waitForHttpServer(t)

	t.Run("order is fulfilled", func(t *testing.T) {
		productID := createProduct(t, Money{Amount: 500, Currency: "EUR"}, 10)

		orderID := createOrder(t, []OrderItem{{ProductID: productID, Quantity: 2}})

		assert.EventuallyWithT(t, func(t *assert.CollectT) {
			order, status := getOrder(t, orderID)
			if !assert.Equal(t, http.StatusOK, status) {
				return
			}
			assert.Equal(t, "completed", order.Status)
			assert.Equal(t, Money{Amount: 1000, Currency: "EUR"}, order.TotalPrice)
		}, 10*time.Second, 100*time.Millisecond)

		quantity, status := getStock(t, productID)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 8, quantity)
	})

	t.Run("order fails on insufficient stock", func(t *testing.T) {
		productID := createProduct(t, Money{Amount: 500, Currency: "EUR"}, 3)

		orderID := createOrder(t, []OrderItem{{ProductID: productID, Quantity: 5}})

		assert.EventuallyWithT(t, func(t *assert.CollectT) {
			order, status := getOrder(t, orderID)
			if !assert.Equal(t, http.StatusOK, status) {
				return
			}
			assert.Equal(t, "failed", order.Status)
		}, 10*time.Second, 100*time.Millisecond)

		quantity, status := getStock(t, productID)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 3, quantity, "a failed reservation must not leak stock")
	})

	t.Run("stock decrease is idempotent", func(t *testing.T) {
		productID := createProduct(t, Money{Amount: 500, Currency: "EUR"}, 10)

		headers := map[string]string{
			"Idempotency-Key": uuid.NewString(),
			"X-Actor-ID":      "staff-1",
			"X-Actor-Role":    "staff",
		}
		body := DecreaseStockRequest{ProductID: productID, Quantity: 4}

		resp := sendJSON(t, http.MethodPost, "/stock/decrease", body, headers)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 6, decodeJSON[StockResponse](t, resp).Quantity)

		resp = sendJSON(t, http.MethodPost, "/stock/decrease", body, headers)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 6, decodeJSON[StockResponse](t, resp).Quantity)

		quantity, status := getStock(t, productID)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 6, quantity)
	})

	t.Run("customers cannot adjust stock", func(t *testing.T) {
		productID := createProduct(t, Money{Amount: 500, Currency: "EUR"}, 10)

		resp := sendJSON(t, http.MethodPost, "/stock/decrease", DecreaseStockRequest{
			ProductID: productID,
			Quantity:  1,
		}, map[string]string{
			"Idempotency-Key": uuid.NewString(),
			"X-Actor-ID":      "customer-1",
			"X-Actor-Role":    "customer",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("restock is applied asynchronously", func(t *testing.T) {
		productID := createProduct(t, Money{Amount: 500, Currency: "EUR"}, 1)

		resp := sendJSON(t, http.MethodPost, "/stock/restock", DecreaseStockRequest{
			ProductID: productID,
			Quantity:  9,
		}, map[string]string{
			"Idempotency-Key": uuid.NewString(),
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusAccepted, resp.StatusCode)

		assert.EventuallyWithT(t, func(t *assert.CollectT) {
			quantity, status := getStock(t, productID)
			if !assert.Equal(t, http.StatusOK, status) {
				return
			}
			assert.Equal(t, 10, quantity)
		}, 10*time.Second, 100*time.Millisecond)
	})

	t.Run("completed order cannot be cancelled", func(t *testing.T) {
		productID := createProduct(t, Money{Amount: 500, Currency: "EUR"}, 10)

		orderID := createOrder(t, []OrderItem{{ProductID: productID, Quantity: 4}})

		assert.EventuallyWithT(t, func(t *assert.CollectT) {
			order, status := getOrder(t, orderID)
			if !assert.Equal(t, http.StatusOK, status) {
				return
			}
			assert.Equal(t, "completed", order.Status)
		}, 10*time.Second, 100*time.Millisecond)

		resp := sendJSON(t, http.MethodPut, "/orders/"+orderID+"/cancel", nil, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func waitForHttpServer(t *testing.T) {
	t.Helper()

	require.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := http.Get(baseURL + "/health")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			assert.Less(t, resp.StatusCode, 300, "API not ready, http status: %d", resp.StatusCode)
		},
		time.Second*10,
		time.Millisecond*50,
	)
}
