package handler

import (
	"net/http"

	"inventory-service/internal/service"
	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListOrders handles retrieving all orders, newest first
func (h *Handler) ListOrders(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing orders")

	orders, err := h.orders.List(c.Request().Context())
	if err != nil {
		return fail(c, log, "Failed to retrieve orders", err)
	}

	log.Info("Orders retrieved successfully", zap.Int("count", len(orders)))
	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles retrieving an order with its items
func (h *Handler) GetOrder(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}
	log.Info("Getting order by ID", zap.Uint("order_id", id))

	order, err := h.orders.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, "Failed to retrieve order", err)
	}

	log.Info("Order retrieved successfully",
		zap.Uint("order_id", id),
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(order.Items)))
	return c.JSON(http.StatusOK, order)
}

// CreateOrder handles creating a new order with its items
func (h *Handler) CreateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new order")

	var req service.OrderInput
	if ok, err := bind(c, log, &req); !ok {
		return err
	}

	order, err := h.orders.Create(c.Request().Context(), req)
	if err != nil {
		return fail(c, log, "Failed to create order", err)
	}

	log.Info("Order created successfully",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber))
	return c.JSON(http.StatusCreated, order)
}

// UpdateOrder handles a partial update of an order and its items
func (h *Handler) UpdateOrder(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}
	log.Info("Updating order", zap.Uint("order_id", id))

	var req service.OrderInput
	if ok, err := bind(c, log, &req); !ok {
		return err
	}

	order, err := h.orders.Update(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, log, "Failed to update order", err)
	}

	log.Info("Order updated successfully",
		zap.Uint("order_id", id),
		zap.String("total_amount", order.TotalAmount.String()))
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder handles deleting an order and its items
func (h *Handler) DeleteOrder(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}
	log.Info("Deleting order", zap.Uint("order_id", id))

	if err := h.orders.Delete(c.Request().Context(), id); err != nil {
		return fail(c, log, "Failed to delete order", err)
	}

	log.Info("Order deleted successfully", zap.Uint("order_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order deleted successfully",
	})
}

// OrderStats handles the order dashboard summary
func (h *Handler) OrderStats(c echo.Context) error {
	log := logger.FromContext(c)

	stats, err := h.orders.Stats(c.Request().Context())
	if err != nil {
		return fail(c, log, "Failed to retrieve order stats", err)
	}
	return c.JSON(http.StatusOK, stats)
}
