package model

import (
	"time"

	"gorm.io/datatypes"
)

// ActionType is the kind of mutation a history entry records
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// Valid reports whether a is one of the known actions.
func (a ActionType) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// EntityKind names an entity that carries change history
type EntityKind string

const (
	KindProduct EntityKind = "product"
	KindOrder   EntityKind = "order"
)

// HistoryTable returns the name of the kind's history table.
func (k EntityKind) HistoryTable() string {
	return string(k) + "_history"
}

// Title returns the display name of the kind, e.g. "Product".
func (k EntityKind) Title() string {
	switch k {
	case KindProduct:
		return "Product"
	case KindOrder:
		return "Order"
	}
	return "Entity"
}

// DeletedKey is the payload key wrapping the snapshot of a deleted entity.
func (k EntityKind) DeletedKey() string {
	switch k {
	case KindProduct:
		return "deletedProduct"
	case KindOrder:
		return "deletedOrder"
	}
	return "deleted"
}

// HistoryEntry is an immutable audit record. EntityID is not a foreign key:
// entries outlive the entity they describe.
type HistoryEntry struct {
	ID         uint           `json:"id" gorm:"primarykey"`
	EntityID   uint           `json:"entity_id" gorm:"index;not null"`
	ActionType ActionType     `json:"action_type" gorm:"type:varchar(10);not null"`
	Changes    datatypes.JSON `json:"changes" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at" gorm:"index;not null"`
}

// ProductHistory and OrderHistory give each kind its own table and index
// names for migrations. Reads and writes go through HistoryEntry.
type ProductHistory struct {
	HistoryEntry
}

func (ProductHistory) TableName() string { return KindProduct.HistoryTable() }

type OrderHistory struct {
	HistoryEntry
}

func (OrderHistory) TableName() string { return KindOrder.HistoryTable() }

// AllModels lists every model the service migrates.
func AllModels() []any {
	return []any{
		&Category{},
		&Supplier{},
		&Product{},
		&Customer{},
		&Order{},
		&OrderItem{},
		&ProductHistory{},
		&OrderHistory{},
	}
}
