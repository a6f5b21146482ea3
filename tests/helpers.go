package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/lithammer/shortuuid/v3"
	"github.com/stretchr/testify/require"
)

// testingT is satisfied by both *testing.T and *assert.CollectT, so helpers
// can be used inside assert.EventuallyWithT closures.
type testingT interface {
	require.TestingT
}

func markHelper(t testingT) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
}

const baseURL = "http://localhost:8080"

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type CreateProductRequest struct {
	ProductID       string `json:"product_id"`
	Name            string `json:"name"`
	Price           Money  `json:"price"`
	InitialQuantity int    `json:"initial_quantity"`
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerEmail string      `json:"customer_email"`
	Items         []OrderItem `json:"items"`
}

type CreateOrderResponse struct {
	OrderID string `json:"order_id"`
}

type OrderResponse struct {
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	TotalPrice Money  `json:"total_price"`
}

type StockResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type DecreaseStockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

func sendJSON(t testingT, method, path string, body any, headers map[string]string) *http.Response {
	markHelper(t)

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(payload))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Correlation-ID", shortuuid.New())
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t testingT, resp *http.Response) T {
	markHelper(t)
	defer resp.Body.Close()

	var result T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func createProduct(t *testing.T, price Money, initialQuantity int) string {
	t.Helper()

	productID := uuid.NewString()
	resp := sendJSON(t, http.MethodPost, "/products", CreateProductRequest{
		ProductID:       productID,
		Name:            "product " + productID,
		Price:           price,
		InitialQuantity: initialQuantity,
	}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return productID
}

func createOrder(t *testing.T, items []OrderItem) string {
	t.Helper()

	resp := sendJSON(t, http.MethodPost, "/orders", CreateOrderRequest{
		CustomerEmail: "customer@example.com",
		Items:         items,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return decodeJSON[CreateOrderResponse](t, resp).OrderID
}

func getOrder(t testingT, orderID string) (OrderResponse, int) {
	markHelper(t)

	resp := sendJSON(t, http.MethodGet, "/orders/"+orderID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return OrderResponse{}, resp.StatusCode
	}
	return decodeJSON[OrderResponse](t, resp), http.StatusOK
}

func getStock(t testingT, productID string) (int, int) {
	markHelper(t)

	resp := sendJSON(t, http.MethodGet, "/stock/"+productID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return 0, resp.StatusCode
	}
	return decodeJSON[StockResponse](t, resp).Quantity, http.StatusOK
}
