package handler

import (
	"net/http"

	"inventory-service/internal/model"
	"inventory-service/internal/service"
	"inventory-service/internal/store"
	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// recordInput is a request body of a directory resource
type recordInput[T any] interface {
	Model() (*T, error)
	Patch() *store.Patch
}

func listRecords[T any](c echo.Context, d *service.Directory[T], noun string) error {
	log := logger.FromContext(c)
	log.Info("Listing " + noun + "s")

	records, err := d.List(c.Request().Context())
	if err != nil {
		return fail(c, log, "Failed to retrieve "+noun+"s", err)
	}

	log.Info("Records retrieved successfully", zap.String("kind", noun), zap.Int("count", len(records)))
	return c.JSON(http.StatusOK, records)
}

func getRecord[T any](c echo.Context, d *service.Directory[T], noun string) error {
	log := logger.FromContext(c)
	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}

	record, err := d.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, "Failed to retrieve "+noun, err)
	}
	return c.JSON(http.StatusOK, record)
}

func createRecord[T any, I recordInput[T]](c echo.Context, d *service.Directory[T], noun string) error {
	log := logger.FromContext(c)
	log.Info("Creating new " + noun)

	var req I
	if ok, err := bind(c, log, &req); !ok {
		return err
	}

	record, err := req.Model()
	if err != nil {
		return fail(c, log, "Invalid "+noun, err)
	}

	created, err := d.Create(c.Request().Context(), record)
	if err != nil {
		return fail(c, log, "Failed to create "+noun, err)
	}

	log.Info("Record created successfully", zap.String("kind", noun))
	return c.JSON(http.StatusCreated, created)
}

func updateRecord[T any, I recordInput[T]](c echo.Context, d *service.Directory[T], noun string) error {
	log := logger.FromContext(c)
	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}
	log.Info("Updating "+noun, zap.Uint("id", id))

	var req I
	if ok, err := bind(c, log, &req); !ok {
		return err
	}

	updated, err := d.Update(c.Request().Context(), id, req.Patch())
	if err != nil {
		return fail(c, log, "Failed to update "+noun, err)
	}

	log.Info("Record updated successfully", zap.String("kind", noun), zap.Uint("id", id))
	return c.JSON(http.StatusOK, updated)
}

func deleteRecord[T any](c echo.Context, d *service.Directory[T], noun string) error {
	log := logger.FromContext(c)
	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}
	log.Info("Deleting "+noun, zap.Uint("id", id))

	if err := d.Delete(c.Request().Context(), id); err != nil {
		return fail(c, log, "Failed to delete "+noun, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Deleted successfully",
	})
}

// ListCategories retrieves all product categories
func (h *Handler) ListCategories(c echo.Context) error {
	return listRecords(c, h.categories, "category")
}

// GetCategory retrieves a specific category by ID
func (h *Handler) GetCategory(c echo.Context) error {
	return getRecord(c, h.categories, "category")
}

// CreateCategory creates a new category
func (h *Handler) CreateCategory(c echo.Context) error {
	return createRecord[model.Category, service.CategoryInput](c, h.categories, "category")
}

// UpdateCategory updates an existing category
func (h *Handler) UpdateCategory(c echo.Context) error {
	return updateRecord[model.Category, service.CategoryInput](c, h.categories, "category")
}

// DeleteCategory deletes a category
func (h *Handler) DeleteCategory(c echo.Context) error {
	return deleteRecord(c, h.categories, "category")
}

// ListSuppliers retrieves all suppliers
func (h *Handler) ListSuppliers(c echo.Context) error {
	return listRecords(c, h.suppliers, "supplier")
}

// GetSupplier retrieves a specific supplier by ID
func (h *Handler) GetSupplier(c echo.Context) error {
	return getRecord(c, h.suppliers, "supplier")
}

// CreateSupplier creates a new supplier
func (h *Handler) CreateSupplier(c echo.Context) error {
	return createRecord[model.Supplier, service.SupplierInput](c, h.suppliers, "supplier")
}

// UpdateSupplier updates an existing supplier
func (h *Handler) UpdateSupplier(c echo.Context) error {
	return updateRecord[model.Supplier, service.SupplierInput](c, h.suppliers, "supplier")
}

// DeleteSupplier deletes a supplier
func (h *Handler) DeleteSupplier(c echo.Context) error {
	return deleteRecord(c, h.suppliers, "supplier")
}

// ListCustomers retrieves all customers ordered by name
func (h *Handler) ListCustomers(c echo.Context) error {
	return listRecords(c, h.customers.Directory, "customer")
}

// GetCustomer retrieves a customer together with its orders
func (h *Handler) GetCustomer(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}
	log.Info("Getting customer by ID", zap.Uint("customer_id", id))

	detail, err := h.customers.Detail(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, "Failed to retrieve customer", err)
	}

	log.Info("Customer retrieved successfully",
		zap.Uint("customer_id", id),
		zap.Int("orders", len(detail.Orders)))
	return c.JSON(http.StatusOK, detail)
}

// CreateCustomer creates a new customer
func (h *Handler) CreateCustomer(c echo.Context) error {
	return createRecord[model.Customer, service.CustomerInput](c, h.customers.Directory, "customer")
}

// UpdateCustomer updates an existing customer
func (h *Handler) UpdateCustomer(c echo.Context) error {
	return updateRecord[model.Customer, service.CustomerInput](c, h.customers.Directory, "customer")
}

// DeleteCustomer deletes a customer
func (h *Handler) DeleteCustomer(c echo.Context) error {
	return deleteRecord(c, h.customers.Directory, "customer")
}
