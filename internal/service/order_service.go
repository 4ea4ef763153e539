package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-service/internal/history"
	"inventory-service/internal/model"
	"inventory-service/internal/store"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// orderNumberAttempts bounds the retries when a concurrent create took the
// generated order number.
const orderNumberAttempts = 3

// OrderItemInput is a submitted order line. ID is set for existing lines.
type OrderItemInput struct {
	ID        *uint           `json:"id"`
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price"`
}

// OrderInput carries caller-supplied order fields. Nil fields are not
// supplied; a null Optional clears its column. On update, an empty Items
// leaves the lines untouched.
type OrderInput struct {
	CustomerName  *string          `json:"customer_name" validate:"omitempty,min=1,max=255"`
	CustomerEmail Optional[string] `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone Optional[string] `json:"customer_phone" validate:"omitempty,max=50"`
	Status        *string          `json:"status" validate:"omitempty,oneof=Pending Processing Completed Cancelled"`
	Notes         Optional[string] `json:"notes"`
	Items         []OrderItemInput `json:"items" validate:"dive"`
}

func (in OrderInput) validate() error {
	for i, item := range in.Items {
		if item.ProductID == 0 {
			return validationError("items[%d]: product_id is required", i)
		}
		if item.Quantity <= 0 {
			return validationError("items[%d]: quantity must be positive", i)
		}
		if err := checkPrice(fmt.Sprintf("items[%d].price", i), item.Price); err != nil {
			return err
		}
	}
	return nil
}

func (in OrderInput) patch() *store.Patch {
	p := store.NewPatch()
	if in.CustomerName != nil {
		p.Set("customer_name", *in.CustomerName)
	}
	setOptional(p, "customer_email", in.CustomerEmail)
	setOptional(p, "customer_phone", in.CustomerPhone)
	if in.Status != nil {
		p.Set("status", *in.Status)
	}
	setOptional(p, "notes", in.Notes)
	return p
}

func (in OrderInput) itemInputs() []history.ItemInput {
	return lo.Map(in.Items, func(item OrderItemInput, _ int) history.ItemInput {
		return history.ItemInput{ID: item.ID, ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price}
	})
}

// OrderStats is the order dashboard summary
type OrderStats struct {
	TotalOrders    int64                 `json:"total_orders"`
	TotalRevenue   decimal.Decimal       `json:"total_revenue"`
	ByStatus       []store.StatusSummary `json:"by_status"`
	RecentActivity []history.Entry       `json:"recent_activity"`
}

// OrderService orchestrates order mutations and their change history
type OrderService struct {
	orders         *store.OrderStore
	log            HistoryLog
	history        HistoryReader
	now            func() time.Time
	dashboardLimit int
}

// NewOrderService returns an order service
func NewOrderService(orders *store.OrderStore, log HistoryLog, reader HistoryReader, opts ...Option) *OrderService {
	o := newOptions(opts)
	return &OrderService{
		orders:         orders,
		log:            log,
		history:        reader,
		now:            o.now,
		dashboardLimit: o.dashboardLimit,
	}
}

// List returns orders without their items, newest first
func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, storeError("list orders", err)
	}
	return orders, nil
}

// Get returns one order with its items
func (s *OrderService) Get(ctx context.Context, id uint) (*model.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, entityError(model.KindOrder, id, "get order", err)
	}
	return order, nil
}

// Create stores a new order with a generated number and records it
func (s *OrderService) Create(ctx context.Context, in OrderInput) (*model.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.CustomerName == nil || *in.CustomerName == "" {
		return nil, validationError("customer_name is required")
	}
	if len(in.Items) == 0 {
		return nil, validationError("an order needs at least one item")
	}

	log := logger.FromCtx(ctx)

	var created *model.Order
	var err error
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		created, err = s.create(ctx, in)
		if !errors.Is(err, store.ErrDuplicate) {
			break
		}
		log.Warn("Order number taken, retrying", zap.Int("attempt", attempt))
	}
	if err != nil {
		prometheus.RecordEntityOperation(string(model.KindOrder), "create", "error")
		return nil, storeError("create order", err)
	}
	prometheus.RecordEntityOperation(string(model.KindOrder), "create", "success")

	s.log.Append(ctx, model.KindOrder, created.ID, history.Creation{Fields: map[string]any{
		"order": orderRecord(created),
		"items": lo.Map(created.Items, func(item model.OrderItem, _ int) map[string]any { return item.Snapshot() }),
	}})

	log.Info("Order created",
		zap.Uint("order_id", created.ID),
		zap.String("order_number", created.OrderNumber),
		zap.String("total_amount", created.TotalAmount.String()))
	return created, nil
}

func (s *OrderService) create(ctx context.Context, in OrderInput) (*model.Order, error) {
	number, err := s.orders.NextOrderNumber(ctx, s.now())
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		OrderNumber:   number,
		CustomerName:  *in.CustomerName,
		CustomerEmail: in.CustomerEmail.Value,
		CustomerPhone: in.CustomerPhone.Value,
		Status:        lo.FromPtrOr(in.Status, model.OrderStatusPending),
		Notes:         in.Notes.Value,
		Items: lo.Map(in.Items, func(item OrderItemInput, _ int) model.OrderItem {
			return model.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price}
		}),
	}
	order.TotalAmount = model.OrderTotal(order.Items)
	return s.orders.Create(ctx, order)
}

// Update applies the supplied fields, reconciles submitted lines against the
// stored ones and records what changed. total_amount follows the lines.
func (s *OrderService) Update(ctx context.Context, id uint, in OrderInput) (*model.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	current, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, entityError(model.KindOrder, id, "load order", err)
	}

	log := logger.FromCtx(ctx).With(zap.Uint("order_id", id))

	patch := in.patch()
	plan := history.ItemPlan{}
	if len(in.Items) > 0 {
		plan = history.ReconcileItems(current.Items, in.itemInputs())
		if len(plan.Ignored) > 0 {
			log.Warn("Ignoring items that do not belong to the order", zap.Uints("item_ids", plan.Ignored))
		}
		if !plan.IsEmpty() {
			patch.Set("total_amount", plan.Total())
		}
	}
	if patch.IsEmpty() {
		return current, nil
	}
	patch.Touch(s.now())

	writes := store.ItemWrites{
		Create: plan.Create,
		Update: lo.Map(plan.Update, func(u history.ItemUpdate, _ int) model.OrderItem { return u.After }),
		Delete: lo.Map(plan.Delete, func(item model.OrderItem, _ int) uint { return item.ID }),
	}
	updated, err := s.orders.Update(ctx, id, patch, writes)
	if err != nil {
		prometheus.RecordEntityOperation(string(model.KindOrder), "update", "error")
		return nil, entityError(model.KindOrder, id, "update order", err)
	}
	prometheus.RecordEntityOperation(string(model.KindOrder), "update", "success")

	changes := history.Modification{
		Fields: history.Diff(current.Fields(), patch.Fields()),
		Items:  plan.Changes(updated.Items),
	}
	if !changes.IsEmpty() {
		s.log.Append(ctx, model.KindOrder, id, changes)
	}

	log.Info("Order updated",
		zap.Strings("columns", patch.Columns()),
		zap.Int("items_created", len(writes.Create)),
		zap.Int("items_updated", len(writes.Update)),
		zap.Int("items_deleted", len(writes.Delete)))
	return updated, nil
}

// Delete removes an order with its items and records the last snapshot
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	current, err := s.orders.Get(ctx, id)
	if err != nil {
		return entityError(model.KindOrder, id, "load order", err)
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		prometheus.RecordEntityOperation(string(model.KindOrder), "delete", "error")
		return entityError(model.KindOrder, id, "delete order", err)
	}
	prometheus.RecordEntityOperation(string(model.KindOrder), "delete", "success")

	s.log.Append(ctx, model.KindOrder, id, history.Deletion{Snapshot: current.Snapshot()})

	logger.FromCtx(ctx).Info("Order deleted",
		zap.Uint("order_id", id),
		zap.String("order_number", current.OrderNumber))
	return nil
}

// Stats returns order counts and revenue per status with the latest order
// activity. Activity is best effort.
func (s *OrderService) Stats(ctx context.Context) (*OrderStats, error) {
	summary, err := s.orders.Summary(ctx)
	if err != nil {
		return nil, storeError("load order stats", err)
	}

	stats := &OrderStats{TotalRevenue: decimal.Zero, ByStatus: summary}
	for _, row := range summary {
		stats.TotalOrders += row.Count
		stats.TotalRevenue = stats.TotalRevenue.Add(row.Revenue)
	}

	stats.RecentActivity, err = s.history.ListRecent(ctx, model.KindOrder, s.dashboardLimit)
	if err != nil {
		logger.FromCtx(ctx).Warn("Recent order activity unavailable", zap.Error(err))
	}
	return stats, nil
}

// History returns the change history of one order, newest first
func (s *OrderService) History(ctx context.Context, id uint) ([]history.Entry, error) {
	entries, err := s.history.ListForEntity(ctx, model.KindOrder, id)
	if err != nil {
		return entries, storeError("load order history", err)
	}
	return entries, nil
}

// RecentHistory returns the latest order changes across all orders
func (s *OrderService) RecentHistory(ctx context.Context, limit int) ([]history.Entry, error) {
	entries, err := s.history.ListRecent(ctx, model.KindOrder, limit)
	if err != nil {
		return entries, storeError("load order history", err)
	}
	return entries, nil
}

// orderRecord is the order row without its items.
func orderRecord(o *model.Order) map[string]any {
	record := o.Snapshot()
	delete(record, "items")
	return record
}
