package middleware

import (
	"strconv"
	"time"

	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware adds prometheus metrics to track HTTP requests
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			// Let echo write the error response so the recorded status is final
			c.Error(err)
		}

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		prometheus.RecordHTTPRequest(c.Request().Method, path, strconv.Itoa(c.Response().Status), time.Since(start))

		return nil
	}
}
