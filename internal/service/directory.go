package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-service/internal/model"
	"inventory-service/internal/store"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Directory is plain CRUD over reference data: categories, suppliers and
// customers. Directory mutations carry no change history.
type Directory[T any] struct {
	repo *store.Repository[T]
	name string
	now  func() time.Time
}

// NewDirectory returns a directory over repo. name is the singular noun
// used in messages and metrics.
func NewDirectory[T any](repo *store.Repository[T], name string, opts ...Option) *Directory[T] {
	return &Directory[T]{repo: repo, name: name, now: newOptions(opts).now}
}

// List returns every record
func (d *Directory[T]) List(ctx context.Context) ([]T, error) {
	records, err := d.repo.List(ctx)
	if err != nil {
		return nil, storeError("list "+d.name+"s", err)
	}
	return records, nil
}

// Get returns one record
func (d *Directory[T]) Get(ctx context.Context, id uint) (*T, error) {
	record, err := d.repo.Get(ctx, id)
	if err != nil {
		return nil, d.recordError(id, "get", err)
	}
	return record, nil
}

// Create stores record
func (d *Directory[T]) Create(ctx context.Context, record *T) (*T, error) {
	if err := d.repo.Create(ctx, record); err != nil {
		prometheus.RecordEntityOperation(d.name, "create", "error")
		return nil, storeError("create "+d.name, err)
	}
	prometheus.RecordEntityOperation(d.name, "create", "success")
	return record, nil
}

// Update applies patch. An empty patch returns the record unchanged.
func (d *Directory[T]) Update(ctx context.Context, id uint, patch *store.Patch) (*T, error) {
	if patch.IsEmpty() {
		return d.Get(ctx, id)
	}

	record, err := d.repo.Update(ctx, id, patch.Touch(d.now()))
	if err != nil {
		prometheus.RecordEntityOperation(d.name, "update", "error")
		return nil, d.recordError(id, "update", err)
	}
	prometheus.RecordEntityOperation(d.name, "update", "success")
	return record, nil
}

// Delete removes one record
func (d *Directory[T]) Delete(ctx context.Context, id uint) error {
	if err := d.repo.Delete(ctx, id); err != nil {
		prometheus.RecordEntityOperation(d.name, "delete", "error")
		return d.recordError(id, "delete", err)
	}
	prometheus.RecordEntityOperation(d.name, "delete", "success")
	logger.FromCtx(ctx).Info("Record deleted", zap.String("kind", d.name), zap.Uint("id", id))
	return nil
}

func (d *Directory[T]) recordError(id uint, op string, err error) *Error {
	if errors.Is(err, store.ErrNotFound) {
		return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %d not found", d.name, id), Err: err}
	}
	return storeError(op+" "+d.name, err)
}

// CategoryInput carries caller-supplied category fields
type CategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

// Model returns a new category from the input
func (in CategoryInput) Model() (*model.Category, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, validationError("name is required")
	}
	return &model.Category{Name: *in.Name, Description: lo.FromPtr(in.Description)}, nil
}

// Patch returns the columns the input supplies
func (in CategoryInput) Patch() *store.Patch {
	p := store.NewPatch()
	setIf(p, "name", in.Name)
	setIf(p, "description", in.Description)
	return p
}

// SupplierInput carries caller-supplied supplier fields
type SupplierInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	Address     *string `json:"address"`
}

// Model returns a new supplier from the input
func (in SupplierInput) Model() (*model.Supplier, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, validationError("name is required")
	}
	return &model.Supplier{
		Name:        *in.Name,
		ContactName: lo.FromPtr(in.ContactName),
		Email:       lo.FromPtr(in.Email),
		Phone:       lo.FromPtr(in.Phone),
		Address:     lo.FromPtr(in.Address),
	}, nil
}

// Patch returns the columns the input supplies
func (in SupplierInput) Patch() *store.Patch {
	p := store.NewPatch()
	setIf(p, "name", in.Name)
	setIf(p, "contact_name", in.ContactName)
	setIf(p, "email", in.Email)
	setIf(p, "phone", in.Phone)
	setIf(p, "address", in.Address)
	return p
}

// CustomerInput carries caller-supplied customer fields. A null contact
// field clears it.
type CustomerInput struct {
	Name    *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Email   Optional[string] `json:"email" validate:"omitempty,email"`
	Phone   Optional[string] `json:"phone" validate:"omitempty,max=50"`
	Address Optional[string] `json:"address"`
	Notes   Optional[string] `json:"notes"`
}

// Model returns a new customer from the input
func (in CustomerInput) Model() (*model.Customer, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, validationError("name is required")
	}
	return &model.Customer{
		Name:    *in.Name,
		Email:   in.Email.Value,
		Phone:   in.Phone.Value,
		Address: in.Address.Value,
		Notes:   in.Notes.Value,
	}, nil
}

// Patch returns the columns the input supplies
func (in CustomerInput) Patch() *store.Patch {
	p := store.NewPatch()
	setIf(p, "name", in.Name)
	setOptional(p, "email", in.Email)
	setOptional(p, "phone", in.Phone)
	setOptional(p, "address", in.Address)
	setOptional(p, "notes", in.Notes)
	return p
}

// CustomerDetail is a customer with the orders placed under its email
type CustomerDetail struct {
	model.Customer
	Orders []model.Order `json:"orders"`
}

// CustomerService is the customer directory plus order lookup
type CustomerService struct {
	*Directory[model.Customer]
	orders *store.OrderStore
}

// NewCustomerService returns a customer service
func NewCustomerService(customers *store.Repository[model.Customer], orders *store.OrderStore, opts ...Option) *CustomerService {
	return &CustomerService{Directory: NewDirectory(customers, "customer", opts...), orders: orders}
}

// Detail returns the customer with the orders placed under its email
func (s *CustomerService) Detail(ctx context.Context, id uint) (*CustomerDetail, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &CustomerDetail{Customer: *customer, Orders: []model.Order{}}
	if customer.Email == nil || *customer.Email == "" {
		return detail, nil
	}

	detail.Orders, err = s.orders.ListByCustomerEmail(ctx, *customer.Email)
	if err != nil {
		return nil, storeError("list customer orders", err)
	}
	return detail, nil
}

func setIf[V any](p *store.Patch, column string, v *V) {
	if v != nil {
		p.Set(column, *v)
	}
}
