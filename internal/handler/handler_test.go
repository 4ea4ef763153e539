package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inventory-service/internal/handler"
	"inventory-service/internal/history"
	"inventory-service/internal/middleware"
	"inventory-service/internal/model"
	"inventory-service/internal/service"
	"inventory-service/internal/store"
	"inventory-service/internal/store/storetest"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	db := storetest.NewDB(t)

	products := store.NewProductStore(db)
	orders := store.NewOrderStore(db)
	recorder := history.NewRecorder(db)
	query := history.NewQuery(db, map[model.EntityKind]history.LabelSource{
		model.KindProduct: products,
		model.KindOrder:   orders,
	}, 0)

	h := handler.New(
		service.NewProductService(products, recorder, query),
		service.NewOrderService(orders, recorder, query),
		service.NewDirectory(store.NewRepository[model.Category](db, "category", "name ASC"), "category"),
		service.NewDirectory(store.NewRepository[model.Supplier](db, "supplier", "name ASC"), "supplier"),
		service.NewCustomerService(store.NewRepository[model.Customer](db, "customer", "name ASC"), orders),
	)

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.Use(middleware.RequestIDMiddleware)
	h.Register(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	e := newServer(t)
	rec := do(t, e, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"inventory-service"}`, rec.Body.String())
}

func TestProductLifecycle(t *testing.T) {
	e := newServer(t)

	rec := do(t, e, http.MethodPost, "/api/products", `{"name":"Widget","sku":"W-1","stock":10,"price":"5.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "Widget", created["name"])
	assert.Equal(t, "In stock", created["status"])

	rec = do(t, e, http.MethodPatch, "/api/products/1", `{"stock":7}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(7), decode[map[string]any](t, rec)["stock"])

	rec = do(t, e, http.MethodGet, "/api/products/1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]map[string]any](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, "update", entries[0]["action_type"])
	assert.Equal(t, "Widget", entries[0]["label"])
	assert.Equal(t, map[string]any{"stock": map[string]any{"before": float64(10), "after": float64(7)}}, entries[0]["changes"])

	rec = do(t, e, http.MethodDelete, "/api/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/products/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Product 1 not found"}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/api/products/history?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	recent := decode[[]map[string]any](t, rec)
	require.Len(t, recent, 2)
	assert.Equal(t, "delete", recent[0]["action_type"])
	assert.Equal(t, "Product #1", recent[0]["label"])
	assert.Contains(t, recent[0]["changes"], "deletedProduct")
}

func TestProductErrors(t *testing.T) {
	e := newServer(t)
	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/api/products", `{"name":"Widget","sku":"W-1"}`).Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"negative stock", http.MethodPost, "/api/products", `{"name":"X","sku":"X-1","stock":-1}`, http.StatusBadRequest},
		{"unknown status", http.MethodPost, "/api/products", `{"name":"X","sku":"X-1","status":"Lost"}`, http.StatusBadRequest},
		{"negative price", http.MethodPost, "/api/products", `{"name":"X","sku":"X-1","price":-2}`, http.StatusBadRequest},
		{"sub-cent price", http.MethodPost, "/api/products", `{"name":"X","sku":"X-1","price":"1.005"}`, http.StatusBadRequest},
		{"long image url", http.MethodPost, "/api/products", `{"name":"X","sku":"X-1","image_url":"` + strings.Repeat("a", 2049) + `"}`, http.StatusBadRequest},
		{"missing sku", http.MethodPost, "/api/products", `{"name":"X"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/products", `{"name":`, http.StatusBadRequest},
		{"duplicate sku", http.MethodPost, "/api/products", `{"name":"Y","sku":"W-1"}`, http.StatusConflict},
		{"invalid id", http.MethodGet, "/api/products/abc", "", http.StatusBadRequest},
		{"missing product", http.MethodPut, "/api/products/99", `{"stock":1}`, http.StatusNotFound},
		{"invalid category filter", http.MethodGet, "/api/products?category_id=x", "", http.StatusBadRequest},
		{"invalid supplier filter", http.MethodGet, "/api/products?supplier_id=-1", "", http.StatusBadRequest},
		{"invalid history limit", http.MethodGet, "/api/products/history?limit=abc", "", http.StatusBadRequest},
		{"negative history limit", http.MethodGet, "/api/orders/history?limit=-1", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Contains(t, decode[map[string]any](t, rec), "error")
		})
	}
}

func TestOrderEndpoints(t *testing.T) {
	e := newServer(t)
	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/api/products", `{"name":"Apple","sku":"A-1","stock":5,"price":"3"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/api/products", `{"name":"Banana","sku":"B-1","stock":5,"price":"5"}`).Code)

	rec := do(t, e, http.MethodPost, "/api/orders", `{
		"customer_name": "Ada",
		"customer_email": "ada@example.com",
		"items": [{"product_id":1,"quantity":2,"price":3},{"product_id":2,"quantity":1,"price":"5"}]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[model.Order](t, rec)
	assert.Equal(t, "11", order.TotalAmount.String())
	require.Len(t, order.Items, 2)

	rec = do(t, e, http.MethodPost, "/api/orders", `{"customer_name":"Ada","items":[{"product_id":1,"quantity":0,"price":3}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPut, "/api/orders/1", `{"status":"Shipped"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPut, "/api/orders/1", `{"customer_email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/orders", `{"customer_name":"Ada","items":[{"product_id":1,"quantity":1,"price":"1.005"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPut, "/api/orders/1", `{"status":"Completed"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/api/orders/1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]map[string]any](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]any{
		"order": map[string]any{"status": map[string]any{"before": "Pending", "after": "Completed"}},
		"items": []any{},
	}, entries[0]["changes"])

	rec = do(t, e, http.MethodGet, "/api/orders/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.Equal(t, float64(1), stats["total_orders"])
	assert.Equal(t, "11", stats["total_revenue"])

	rec = do(t, e, http.MethodPost, "/api/customers", `{"name":"Ada","email":"ada@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, e, http.MethodGet, "/api/customers/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	customer := decode[map[string]any](t, rec)
	assert.Equal(t, "Ada", customer["name"])
	assert.Len(t, customer["orders"], 1)

	rec = do(t, e, http.MethodDelete, "/api/orders/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, e, http.MethodGet, "/api/orders/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	recent := decode[[]map[string]any](t, rec)
	require.Len(t, recent, 3)
	deleted := recent[0]["changes"].(map[string]any)["deletedOrder"].(map[string]any)
	assert.Len(t, deleted["items"], 2)
}

func TestDirectoryEndpoints(t *testing.T) {
	e := newServer(t)

	rec := do(t, e, http.MethodPost, "/api/categories", `{"name":"Fruit"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/api/categories", `{"description":"no name"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPut, "/api/categories/1", `{"description":"Fresh"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fresh", decode[model.Category](t, rec).Description)

	rec = do(t, e, http.MethodPost, "/api/suppliers", `{"name":"Acme","email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/suppliers", `{"name":"Acme","email":"sales@acme.test"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/api/products", `{"name":"Apple","sku":"A-1","category_id":1,"supplier_id":1,"stock":3,"price":"2"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[model.Product](t, rec)
	require.NotNil(t, product.CategoryName)
	assert.Equal(t, "Fruit", *product.CategoryName)

	rec = do(t, e, http.MethodGet, "/api/products?category_id=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Product](t, rec), 1)

	rec = do(t, e, http.MethodGet, "/api/products/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.Equal(t, float64(1), stats["low_stock_products"])
	assert.Equal(t, "6", stats["total_value"])

	rec = do(t, e, http.MethodDelete, "/api/suppliers/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Category](t, rec), 1)
}

func TestProductPatchClearsNullableFields(t *testing.T) {
	e := newServer(t)
	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/api/categories", `{"name":"Fruit"}`).Code)

	rec := do(t, e, http.MethodPost, "/api/products", `{"name":"Apple","sku":"A-1","category_id":1,"image_url":"https://img/a.png"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, e, http.MethodPatch, "/api/products/1", `{"category_id":null,"image_url":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	product := decode[map[string]any](t, rec)
	assert.Nil(t, product["category_id"])
	assert.Nil(t, product["image_url"])

	rec = do(t, e, http.MethodGet, "/api/products/1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]map[string]any](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]any{
		"category_id": map[string]any{"before": float64(1), "after": nil},
		"image_url":   map[string]any{"before": "https://img/a.png", "after": nil},
	}, entries[0]["changes"])

	rec = do(t, e, http.MethodPatch, "/api/products/1", `{"stock":4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, decode[map[string]any](t, rec)["image_url"])
}
