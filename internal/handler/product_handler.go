package handler

import (
	"net/http"

	"inventory-service/internal/service"
	"inventory-service/internal/store"
	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListProducts handles retrieving products with optional filtering
func (h *Handler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing products with filters")

	categoryID, ok, err := queryUint(c, log, "category_id")
	if !ok {
		return err
	}
	supplierID, ok, err := queryUint(c, log, "supplier_id")
	if !ok {
		return err
	}

	filter := store.ProductFilter{
		CategoryID: categoryID,
		SupplierID: supplierID,
		Status:     c.QueryParam("status"),
	}

	products, err := h.products.List(c.Request().Context(), filter)
	if err != nil {
		return fail(c, log, "Failed to retrieve products", err)
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// ListOrderableProducts handles retrieving the products available for orders
func (h *Handler) ListOrderableProducts(c echo.Context) error {
	log := logger.FromContext(c)

	products, err := h.products.ListOrderable(c.Request().Context())
	if err != nil {
		return fail(c, log, "Failed to retrieve products", err)
	}

	log.Info("Orderable products retrieved", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func (h *Handler) GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}
	log.Info("Getting product by ID", zap.Uint("product_id", id))

	product, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, "Failed to retrieve product", err)
	}

	log.Info("Product retrieved successfully",
		zap.Uint("product_id", id),
		zap.String("product_name", product.Name),
		zap.String("product_sku", product.SKU))
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func (h *Handler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new product")

	var req service.ProductInput
	if ok, err := bind(c, log, &req); !ok {
		return err
	}

	product, err := h.products.Create(c.Request().Context(), req)
	if err != nil {
		return fail(c, log, "Failed to create product", err)
	}

	log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("sku", product.SKU))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles a partial update of an existing product
func (h *Handler) UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}
	log.Info("Updating product", zap.Uint("product_id", id))

	var req service.ProductInput
	if ok, err := bind(c, log, &req); !ok {
		return err
	}

	product, err := h.products.Update(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, log, "Failed to update product", err)
	}

	log.Info("Product updated successfully",
		zap.Uint("product_id", id),
		zap.String("sku", product.SKU))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product
func (h *Handler) DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}
	log.Info("Deleting product", zap.Uint("product_id", id))

	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return fail(c, log, "Failed to delete product", err)
	}

	log.Info("Product deleted successfully", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product deleted successfully",
	})
}

// InventoryStats handles the inventory dashboard summary
func (h *Handler) InventoryStats(c echo.Context) error {
	log := logger.FromContext(c)

	stats, err := h.products.Stats(c.Request().Context())
	if err != nil {
		return fail(c, log, "Failed to retrieve inventory stats", err)
	}
	return c.JSON(http.StatusOK, stats)
}
