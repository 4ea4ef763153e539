package handler

import (
	"net/http"

	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductHistory handles listing the change history of one product. It
// answers for deleted products too.
func (h *Handler) ProductHistory(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}

	entries, err := h.products.History(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, "Failed to retrieve product history", err)
	}

	log.Info("Product history retrieved",
		zap.Uint("product_id", id),
		zap.Int("count", len(entries)))
	return c.JSON(http.StatusOK, entries)
}

// RecentProductHistory handles listing the latest product changes
func (h *Handler) RecentProductHistory(c echo.Context) error {
	log := logger.FromContext(c)

	limit, ok, err := queryLimit(c, log)
	if !ok {
		return err
	}

	entries, err := h.products.RecentHistory(c.Request().Context(), limit)
	if err != nil {
		return fail(c, log, "Failed to retrieve product history", err)
	}
	return c.JSON(http.StatusOK, entries)
}

// OrderHistory handles listing the change history of one order
func (h *Handler) OrderHistory(c echo.Context) error {
	log := logger.FromContext(c)
	id, ok, err := parseID(c, log)
	if !ok {
		return err
	}

	entries, err := h.orders.History(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, "Failed to retrieve order history", err)
	}

	log.Info("Order history retrieved",
		zap.Uint("order_id", id),
		zap.Int("count", len(entries)))
	return c.JSON(http.StatusOK, entries)
}

// RecentOrderHistory handles listing the latest order changes
func (h *Handler) RecentOrderHistory(c echo.Context) error {
	log := logger.FromContext(c)

	limit, ok, err := queryLimit(c, log)
	if !ok {
		return err
	}

	entries, err := h.orders.RecentHistory(c.Request().Context(), limit)
	if err != nil {
		return fail(c, log, "Failed to retrieve order history", err)
	}
	return c.JSON(http.StatusOK, entries)
}
