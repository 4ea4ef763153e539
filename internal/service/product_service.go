package service

import (
	"context"
	"strconv"
	"time"

	"inventory-service/internal/history"
	"inventory-service/internal/model"
	"inventory-service/internal/store"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductInput carries caller-supplied product fields. Nil fields are not
// supplied: they keep their value on update and their default on create.
// Nullable columns use Optional so that a null clears them.
type ProductInput struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	SKU         *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	CategoryID  Optional[uint]   `json:"category_id"`
	SupplierID  Optional[uint]   `json:"supplier_id"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Price       *decimal.Decimal `json:"price"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	Status      *string          `json:"status" validate:"omitempty,oneof='In stock' 'Low stock' 'Out of stock' 'Discontinued'"`
	ImageURL    Optional[string] `json:"image_url" validate:"omitempty,max=2048"`
}

func (in ProductInput) validate() error {
	if in.Stock != nil && *in.Stock < 0 {
		return validationError("stock must not be negative")
	}
	if in.Price != nil {
		if err := checkPrice("price", *in.Price); err != nil {
			return err
		}
	}
	if in.CostPrice != nil {
		if err := checkPrice("cost_price", *in.CostPrice); err != nil {
			return err
		}
	}
	return nil
}

// patch returns the columns the input supplies.
func (in ProductInput) patch() *store.Patch {
	p := store.NewPatch()
	if in.Name != nil {
		p.Set("name", *in.Name)
	}
	if in.Description != nil {
		p.Set("description", *in.Description)
	}
	if in.SKU != nil {
		p.Set("sku", *in.SKU)
	}
	setOptional(p, "category_id", in.CategoryID)
	setOptional(p, "supplier_id", in.SupplierID)
	if in.Stock != nil {
		p.Set("stock", *in.Stock)
	}
	if in.Price != nil {
		p.Set("price", *in.Price)
	}
	if in.CostPrice != nil {
		p.Set("cost_price", *in.CostPrice)
	}
	if in.Status != nil {
		p.Set("status", *in.Status)
	}
	setOptional(p, "image_url", in.ImageURL)
	return p
}

// InventoryStats is the inventory dashboard summary
type InventoryStats struct {
	store.InventoryTotals
	RecentActivity []history.Entry `json:"recent_activity"`
}

// ProductService orchestrates product mutations and their change history
type ProductService struct {
	products          *store.ProductStore
	log               HistoryLog
	history           HistoryReader
	now               func() time.Time
	lowStockThreshold int
	dashboardLimit    int
}

// NewProductService returns a product service
func NewProductService(products *store.ProductStore, log HistoryLog, reader HistoryReader, opts ...Option) *ProductService {
	o := newOptions(opts)
	return &ProductService{
		products:          products,
		log:               log,
		history:           reader,
		now:               o.now,
		lowStockThreshold: o.lowStockThreshold,
		dashboardLimit:    o.dashboardLimit,
	}
}

// List returns products matching filter, ordered by name
func (s *ProductService) List(ctx context.Context, filter store.ProductFilter) ([]model.Product, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, storeError("list products", err)
	}
	return products, nil
}

// ListOrderable returns products that can be put on an order
func (s *ProductService) ListOrderable(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.ListOrderable(ctx)
	if err != nil {
		return nil, storeError("list orderable products", err)
	}
	return products, nil
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, entityError(model.KindProduct, id, "get product", err)
	}
	return product, nil
}

// Create stores a new product and records its creation
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Name == nil || *in.Name == "" {
		return nil, validationError("name is required")
	}
	if in.SKU == nil || *in.SKU == "" {
		return nil, validationError("sku is required")
	}

	product := &model.Product{
		Name:   *in.Name,
		SKU:    *in.SKU,
		Status: model.ProductStatusInStock,
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.CostPrice != nil {
		product.CostPrice = *in.CostPrice
	}
	if in.Status != nil {
		product.Status = *in.Status
	}
	product.CategoryID = in.CategoryID.Value
	product.SupplierID = in.SupplierID.Value
	product.ImageURL = in.ImageURL.Value

	created, err := s.products.Create(ctx, product)
	if err != nil {
		prometheus.RecordEntityOperation(string(model.KindProduct), "create", "error")
		return nil, storeError("create product", err)
	}
	prometheus.RecordEntityOperation(string(model.KindProduct), "create", "success")
	s.trackStock(created)

	s.log.Append(ctx, model.KindProduct, created.ID, history.Creation{Fields: in.patch().Fields()})

	logger.FromCtx(ctx).Info("Product created",
		zap.Uint("product_id", created.ID),
		zap.String("sku", created.SKU))
	return created, nil
}

// Update applies the supplied fields and records the fields that changed.
// An input without fields returns the product unchanged.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	current, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, entityError(model.KindProduct, id, "load product", err)
	}

	patch := in.patch().Touch(s.now())
	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := s.products.Update(ctx, id, patch)
	if err != nil {
		prometheus.RecordEntityOperation(string(model.KindProduct), "update", "error")
		return nil, entityError(model.KindProduct, id, "update product", err)
	}
	prometheus.RecordEntityOperation(string(model.KindProduct), "update", "success")
	if current.SKU != updated.SKU {
		prometheus.DeleteProductInventory(strconv.FormatUint(uint64(id), 10), current.SKU)
	}
	s.trackStock(updated)

	if changes := history.Diff(current.Fields(), patch.Fields()); len(changes) > 0 {
		s.log.Append(ctx, model.KindProduct, id, history.Modification{Fields: changes})
	}

	logger.FromCtx(ctx).Info("Product updated",
		zap.Uint("product_id", id),
		zap.Strings("columns", patch.Columns()))
	return updated, nil
}

// Delete removes a product and records its last snapshot
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	current, err := s.products.Get(ctx, id)
	if err != nil {
		return entityError(model.KindProduct, id, "load product", err)
	}

	if err := s.products.Delete(ctx, id); err != nil {
		prometheus.RecordEntityOperation(string(model.KindProduct), "delete", "error")
		return entityError(model.KindProduct, id, "delete product", err)
	}
	prometheus.RecordEntityOperation(string(model.KindProduct), "delete", "success")
	prometheus.DeleteProductInventory(strconv.FormatUint(uint64(id), 10), current.SKU)

	s.log.Append(ctx, model.KindProduct, id, history.Deletion{Snapshot: current.Snapshot()})

	logger.FromCtx(ctx).Info("Product deleted",
		zap.Uint("product_id", id),
		zap.String("sku", current.SKU))
	return nil
}

// Stats returns the inventory summary with the latest product activity.
// Activity is best effort: a history failure leaves it empty.
func (s *ProductService) Stats(ctx context.Context) (*InventoryStats, error) {
	totals, err := s.products.Totals(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, storeError("load inventory stats", err)
	}

	recent, err := s.history.ListRecent(ctx, model.KindProduct, s.dashboardLimit)
	if err != nil {
		logger.FromCtx(ctx).Warn("Recent product activity unavailable", zap.Error(err))
	}
	return &InventoryStats{InventoryTotals: *totals, RecentActivity: recent}, nil
}

// History returns the change history of one product, newest first
func (s *ProductService) History(ctx context.Context, id uint) ([]history.Entry, error) {
	entries, err := s.history.ListForEntity(ctx, model.KindProduct, id)
	if err != nil {
		return entries, storeError("load product history", err)
	}
	return entries, nil
}

// RecentHistory returns the latest product changes across all products
func (s *ProductService) RecentHistory(ctx context.Context, limit int) ([]history.Entry, error) {
	entries, err := s.history.ListRecent(ctx, model.KindProduct, limit)
	if err != nil {
		return entries, storeError("load product history", err)
	}
	return entries, nil
}

func (s *ProductService) trackStock(p *model.Product) {
	prometheus.UpdateProductInventory(strconv.FormatUint(uint64(p.ID), 10), p.SKU, float64(p.Stock))
}
