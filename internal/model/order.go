package model

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Order statuses
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusCompleted  = "Completed"
	OrderStatusCancelled  = "Cancelled"
)

// Order is a customer order. It exclusively owns its items.
type Order struct {
	ID            uint            `json:"id" gorm:"primarykey"`
	OrderNumber   string          `json:"order_number" gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerName  string          `json:"customer_name" gorm:"type:varchar(255);not null"`
	CustomerEmail *string         `json:"customer_email" gorm:"type:varchar(255);index"`
	CustomerPhone *string         `json:"customer_phone" gorm:"type:varchar(50)"`
	Status        string          `json:"status" gorm:"type:varchar(50);not null"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	Notes         *string         `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Items         []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// Fields returns the caller-editable fields keyed by column name.
// total_amount is included since item changes rewrite it.
func (o Order) Fields() map[string]any {
	return map[string]any{
		"customer_name":  o.CustomerName,
		"customer_email": o.CustomerEmail,
		"customer_phone": o.CustomerPhone,
		"status":         o.Status,
		"notes":          o.Notes,
		"total_amount":   o.TotalAmount,
	}
}

// Snapshot returns the order's persisted fields together with its items.
func (o Order) Snapshot() map[string]any {
	s := o.Fields()
	s["id"] = o.ID
	s["order_number"] = o.OrderNumber
	s["created_at"] = o.CreatedAt
	s["updated_at"] = o.UpdatedAt
	s["items"] = lo.Map(o.Items, func(item OrderItem, _ int) map[string]any {
		return item.Snapshot()
	})
	return s
}

// OrderItem is one product line of an order. Price is captured at order time.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	OrderID   uint            `json:"order_id" gorm:"index;not null"`
	ProductID uint            `json:"product_id" gorm:"index;not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time       `json:"created_at"`

	// Joined for display, never written
	ProductName *string `json:"product_name,omitempty" gorm:"->;-:migration"`
	ProductSKU  *string `json:"product_sku,omitempty" gorm:"->;-:migration"`
}

// Recalculate sets Subtotal to Quantity x Price.
func (i *OrderItem) Recalculate() {
	i.Subtotal = LineSubtotal(i.Quantity, i.Price)
}

// Snapshot returns the item fields keyed by column name.
func (i OrderItem) Snapshot() map[string]any {
	s := map[string]any{
		"id":         i.ID,
		"order_id":   i.OrderID,
		"product_id": i.ProductID,
		"quantity":   i.Quantity,
		"price":      i.Price,
		"subtotal":   i.Subtotal,
		"created_at": i.CreatedAt,
	}
	if i.ProductName != nil {
		s["product_name"] = *i.ProductName
	}
	if i.ProductSKU != nil {
		s["product_sku"] = *i.ProductSKU
	}
	return s
}

// MoneyScale is the number of decimal places money columns store.
const MoneyScale = 2

// LineSubtotal returns quantity x price.
func LineSubtotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// OrderTotal sums the subtotals of items.
func OrderTotal(items []OrderItem) decimal.Decimal {
	return lo.Reduce(items, func(total decimal.Decimal, item OrderItem, _ int) decimal.Decimal {
		return total.Add(LineSubtotal(item.Quantity, item.Price))
	}, decimal.Zero)
}
