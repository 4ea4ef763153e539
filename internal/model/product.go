package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product statuses
const (
	ProductStatusInStock      = "In stock"
	ProductStatusLowStock     = "Low stock"
	ProductStatusOutOfStock   = "Out of stock"
	ProductStatusDiscontinued = "Discontinued"
)

// Product represents the product master data
type Product struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	Description string          `json:"description" gorm:"type:text"`
	SKU         string          `json:"sku" gorm:"type:varchar(100);uniqueIndex;not null"`
	CategoryID  *uint           `json:"category_id" gorm:"index"`
	SupplierID  *uint           `json:"supplier_id" gorm:"index"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	CostPrice   decimal.Decimal `json:"cost_price" gorm:"type:numeric(12,2);not null"`
	Status      string          `json:"status" gorm:"type:varchar(50);not null"`
	ImageURL    *string         `json:"image_url" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Joined for display, never written
	CategoryName *string `json:"category_name,omitempty" gorm:"->;-:migration"`
	SupplierName *string `json:"supplier_name,omitempty" gorm:"->;-:migration"`
}

// Fields returns the caller-editable fields keyed by column name.
func (p Product) Fields() map[string]any {
	return map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"sku":         p.SKU,
		"category_id": p.CategoryID,
		"supplier_id": p.SupplierID,
		"stock":       p.Stock,
		"price":       p.Price,
		"cost_price":  p.CostPrice,
		"status":      p.Status,
		"image_url":   p.ImageURL,
	}
}

// Snapshot returns every persisted field of the product, including identity,
// timestamps and joined names.
func (p Product) Snapshot() map[string]any {
	s := p.Fields()
	s["id"] = p.ID
	s["created_at"] = p.CreatedAt
	s["updated_at"] = p.UpdatedAt
	if p.CategoryName != nil {
		s["category_name"] = *p.CategoryName
	}
	if p.SupplierName != nil {
		s["supplier_name"] = *p.SupplierName
	}
	return s
}

// Category represents a product category
type Category struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Supplier represents a product supplier
type Supplier struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);index;not null"`
	ContactName string    `json:"contact_name" gorm:"type:varchar(100)"`
	Email       string    `json:"email" gorm:"type:varchar(100)"`
	Phone       string    `json:"phone" gorm:"type:varchar(20)"`
	Address     string    `json:"address" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
