package store

import (
	"context"
	"time"

	"inventory-service/prometheus"

	"gorm.io/gorm"
)

// Repository is plain CRUD over one model without change history
type Repository[T any] struct {
	db      *gorm.DB
	name    string
	orderBy string
}

// NewRepository returns a repository for T. name labels metrics, orderBy
// orders listings.
func NewRepository[T any](db *gorm.DB, name, orderBy string) *Repository[T] {
	return &Repository[T]{db: db, name: name, orderBy: orderBy}
}

// Get returns the record with the given id
func (r *Repository[T]) Get(ctx context.Context, id uint) (*T, error) {
	defer prometheus.TrackDBOperation(r.name + "_get")(time.Now())

	var record T
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error; err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

// List returns every record in listing order
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	defer prometheus.TrackDBOperation(r.name + "_list")(time.Now())

	records := []T{}
	if err := r.db.WithContext(ctx).Order(r.orderBy).Find(&records).Error; err != nil {
		return nil, translate(err)
	}
	return records, nil
}

// Create inserts record
func (r *Repository[T]) Create(ctx context.Context, record *T) error {
	defer prometheus.TrackDBOperation(r.name + "_create")(time.Now())
	return translate(r.db.WithContext(ctx).Create(record).Error)
}

// Update applies patch to the record with the given id
func (r *Repository[T]) Update(ctx context.Context, id uint, patch *Patch) (*T, error) {
	defer prometheus.TrackDBOperation(r.name + "_update")(time.Now())

	result := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(patch.Map())
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes the record with the given id
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation(r.name + "_delete")(time.Now())

	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
