package service

import (
	"time"

	"inventory-service/internal/history"
)

const (
	defaultLowStockThreshold = 10
	defaultDashboardLimit    = 10
)

// Option configures a service
type Option func(*options)

type options struct {
	now               func() time.Time
	lowStockThreshold int
	dashboardLimit    int
}

func newOptions(opts []Option) options {
	o := options{
		now:               time.Now,
		lowStockThreshold: defaultLowStockThreshold,
		dashboardLimit:    defaultDashboardLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock sets the clock used for updated_at and order numbers
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLowStockThreshold sets the stock level below which a product counts
// as low on stock
func WithLowStockThreshold(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.lowStockThreshold = n
		}
	}
}

// WithDashboardLimit caps the recent activity attached to stats
func WithDashboardLimit(n int) Option {
	return func(o *options) {
		if n > 0 && n <= history.DefaultLimit {
			o.dashboardLimit = n
		}
	}
}
