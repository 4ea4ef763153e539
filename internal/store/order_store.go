package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"inventory-service/internal/model"
	"inventory-service/prometheus"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderNumberPrefix = "ORD-"

// ItemWrites are the line-item statements of one order update
type ItemWrites struct {
	Create []model.OrderItem
	Update []model.OrderItem
	Delete []uint
}

// IsEmpty reports whether no item statement is pending
func (w ItemWrites) IsEmpty() bool {
	return len(w.Create) == 0 && len(w.Update) == 0 && len(w.Delete) == 0
}

// StatusSummary is the order count and revenue for one status
type StatusSummary struct {
	Status  string          `json:"status"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// OrderStore persists orders and their items
type OrderStore struct {
	db *gorm.DB
}

// NewOrderStore returns an order store over db
func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// withItems preloads items joined with their product name and sku.
func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.
			Select("order_items.*, products.name AS product_name, products.sku AS product_sku").
			Joins("LEFT JOIN products ON products.id = order_items.product_id").
			Order("order_items.id ASC")
	})
}

// Get returns the order with its items
func (s *OrderStore) Get(ctx context.Context, id uint) (*model.Order, error) {
	defer prometheus.TrackDBOperation("order_get")(time.Now())
	return getOrder(s.db.WithContext(ctx), id)
}

func getOrder(db *gorm.DB, id uint) (*model.Order, error) {
	var order model.Order
	if err := withItems(db).Where("id = ?", id).Take(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// List returns orders without items, newest first
func (s *OrderStore) List(ctx context.Context) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("order_list")(time.Now())

	orders := []model.Order{}
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

// ListByCustomerEmail returns the orders placed with email, newest first
func (s *OrderStore) ListByCustomerEmail(ctx context.Context, email string) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("order_list")(time.Now())

	orders := []model.Order{}
	err := s.db.WithContext(ctx).
		Where("customer_email = ?", email).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

// NextOrderNumber returns the next free number of the day of now,
// formatted ORD-YYMMDD-NNN.
func (s *OrderStore) NextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	day := orderNumberPrefix + now.Format("060102") + "-"

	var last []string
	err := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("order_number LIKE ?", day+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &last).Error
	if err != nil {
		return "", translate(err)
	}

	sequence := 1
	if len(last) > 0 {
		n, err := strconv.Atoi(last[0][strings.LastIndex(last[0], "-")+1:])
		if err == nil {
			sequence = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", day, sequence), nil
}

// Create inserts order together with its items
func (s *OrderStore) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	defer prometheus.TrackDBOperation("order_create")(time.Now())

	for i := range order.Items {
		order.Items[i].Recalculate()
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, order.ID)
}

// Update applies patch to the order and runs the item statements, in one
// transaction.
func (s *OrderStore) Update(ctx context.Context, id uint, patch *Patch, items ItemWrites) (*model.Order, error) {
	defer prometheus.TrackDBOperation("order_update")(time.Now())

	var updated *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Order{}).Where("id = ?", id).Updates(patch.Map())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := writeItems(tx, id, items); err != nil {
			return err
		}

		var err error
		updated, err = getOrder(tx, id)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return updated, nil
}

// writeItems runs the item statements of one order update inside tx.
func writeItems(tx *gorm.DB, orderID uint, items ItemWrites) error {
	if items.IsEmpty() {
		return nil
	}

	if len(items.Delete) > 0 {
		err := tx.Where("order_id = ? AND id IN ?", orderID, items.Delete).Delete(&model.OrderItem{}).Error
		if err != nil {
			return err
		}
	}

	for _, item := range items.Update {
		item.Recalculate()
		err := tx.Model(&model.OrderItem{}).
			Where("order_id = ? AND id = ?", orderID, item.ID).
			Updates(map[string]any{
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
				"price":      item.Price,
				"subtotal":   item.Subtotal,
			}).Error
		if err != nil {
			return err
		}
	}

	if len(items.Create) > 0 {
		created := lo.Map(items.Create, func(item model.OrderItem, _ int) model.OrderItem {
			item.ID = 0
			item.OrderID = orderID
			item.Recalculate()
			return item
		})
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the order and its items
func (s *OrderStore) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("order_delete")(time.Now())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Order{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}

// Labels returns order numbers by id. Missing ids are absent from the map.
func (s *OrderStore) Labels(ctx context.Context, ids []uint) (map[uint]string, error) {
	if len(ids) == 0 {
		return map[uint]string{}, nil
	}

	var rows []model.Order
	err := s.db.WithContext(ctx).
		Select("id", "order_number").
		Where("id IN ?", lo.Uniq(ids)).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return lo.SliceToMap(rows, func(o model.Order) (uint, string) {
		return o.ID, o.OrderNumber
	}), nil
}

// Summary returns order counts and revenue grouped by status
func (s *OrderStore) Summary(ctx context.Context) ([]StatusSummary, error) {
	defer prometheus.TrackDBOperation("order_stats")(time.Now())

	var orders []model.Order
	if err := s.db.WithContext(ctx).Select("status", "total_amount").Find(&orders).Error; err != nil {
		return nil, translate(err)
	}

	grouped := lo.GroupBy(orders, func(o model.Order) string { return o.Status })
	summary := lo.MapToSlice(grouped, func(status string, group []model.Order) StatusSummary {
		return StatusSummary{
			Status: status,
			Count:  int64(len(group)),
			Revenue: lo.Reduce(group, func(sum decimal.Decimal, o model.Order, _ int) decimal.Decimal {
				return sum.Add(o.TotalAmount)
			}, decimal.Zero),
		}
	})
	sort.Slice(summary, func(i, j int) bool { return summary[i].Status < summary[j].Status })
	return summary, nil
}
