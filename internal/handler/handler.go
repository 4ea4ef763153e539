package handler

import (
	"net/http"
	"strconv"

	"inventory-service/internal/model"
	"inventory-service/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler serves the inventory HTTP API
type Handler struct {
	products   *service.ProductService
	orders     *service.OrderService
	categories *service.Directory[model.Category]
	suppliers  *service.Directory[model.Supplier]
	customers  *service.CustomerService
}

// New returns a handler over the given services
func New(
	products *service.ProductService,
	orders *service.OrderService,
	categories *service.Directory[model.Category],
	suppliers *service.Directory[model.Supplier],
	customers *service.CustomerService,
) *Handler {
	return &Handler{
		products:   products,
		orders:     orders,
		categories: categories,
		suppliers:  suppliers,
		customers:  customers,
	}
}

// Register mounts every API route on e
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", HealthCheck)

	products := e.Group("/api/products")
	products.GET("", h.ListProducts)
	products.GET("/orderable", h.ListOrderableProducts)
	products.GET("/stats", h.InventoryStats)
	products.GET("/history", h.RecentProductHistory)
	products.GET("/:id", h.GetProduct)
	products.GET("/:id/history", h.ProductHistory)
	products.POST("", h.CreateProduct)
	products.PUT("/:id", h.UpdateProduct)
	products.PATCH("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)

	orders := e.Group("/api/orders")
	orders.GET("", h.ListOrders)
	orders.GET("/stats", h.OrderStats)
	orders.GET("/history", h.RecentOrderHistory)
	orders.GET("/:id", h.GetOrder)
	orders.GET("/:id/history", h.OrderHistory)
	orders.POST("", h.CreateOrder)
	orders.PUT("/:id", h.UpdateOrder)
	orders.PATCH("/:id", h.UpdateOrder)
	orders.DELETE("/:id", h.DeleteOrder)

	categories := e.Group("/api/categories")
	categories.GET("", h.ListCategories)
	categories.GET("/:id", h.GetCategory)
	categories.POST("", h.CreateCategory)
	categories.PUT("/:id", h.UpdateCategory)
	categories.PATCH("/:id", h.UpdateCategory)
	categories.DELETE("/:id", h.DeleteCategory)

	suppliers := e.Group("/api/suppliers")
	suppliers.GET("", h.ListSuppliers)
	suppliers.GET("/:id", h.GetSupplier)
	suppliers.POST("", h.CreateSupplier)
	suppliers.PUT("/:id", h.UpdateSupplier)
	suppliers.PATCH("/:id", h.UpdateSupplier)
	suppliers.DELETE("/:id", h.DeleteSupplier)

	customers := e.Group("/api/customers")
	customers.GET("", h.ListCustomers)
	customers.GET("/:id", h.GetCustomer)
	customers.POST("", h.CreateCustomer)
	customers.PUT("/:id", h.UpdateCustomer)
	customers.PATCH("/:id", h.UpdateCustomer)
	customers.DELETE("/:id", h.DeleteCustomer)
}

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "inventory-service",
	})
}

// parseID reads the :id path parameter. On failure it has already answered
// the request and returns the response error.
func parseID(c echo.Context, log *zap.Logger) (uint, bool, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		log.Warn("Invalid id parameter", zap.String("id", raw))
		return 0, false, c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid id",
		})
	}
	return uint(id), true, nil
}

// bind decodes and validates the request body into req. On failure it has
// already answered the request and returns the response error.
func bind(c echo.Context, log *zap.Logger, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return false, c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if err := c.Validate(req); err != nil {
		log.Warn("Request validation failed", zap.Error(err))
		return false, c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}
	return true, nil
}

// fail answers err with the status matching its service code
func fail(c echo.Context, log *zap.Logger, msg string, err error) error {
	status := http.StatusInternalServerError
	switch service.CodeOf(err) {
	case service.CodeNotFound:
		status = http.StatusNotFound
	case service.CodeValidation:
		status = http.StatusBadRequest
	case service.CodeConflict:
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error(msg, zap.Error(err))
		return c.JSON(status, echo.Map{"error": msg})
	}
	log.Warn(msg, zap.Error(err))
	return c.JSON(status, echo.Map{"error": service.MessageOf(err)})
}

// queryUint reads an optional unsigned query parameter. A malformed value
// answers 400 and returns false.
func queryUint(c echo.Context, log *zap.Logger, name string) (*uint, bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, true, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		log.Warn("Invalid query parameter", zap.String(name, raw), zap.Error(err))
		return nil, false, c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid " + name,
		})
	}
	n := uint(v)
	return &n, true, nil
}

// queryLimit reads the limit query parameter; 0 means the default limit.
// A malformed or negative value answers 400 and returns false.
func queryLimit(c echo.Context, log *zap.Logger) (int, bool, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, true, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Warn("Invalid limit parameter", zap.String("limit", raw))
		return 0, false, c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid limit",
		})
	}
	return n, true, nil
}
