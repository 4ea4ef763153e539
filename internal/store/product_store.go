package store

import (
	"context"
	"time"

	"inventory-service/internal/model"
	"inventory-service/prometheus"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductFilter narrows a product listing. Zero values mean no filter.
type ProductFilter struct {
	CategoryID *uint
	SupplierID *uint
	Status     string
}

// CategoryCount is the number of products in one category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// InventoryTotals aggregates the product table
type InventoryTotals struct {
	TotalProducts    int64           `json:"total_products"`
	LowStockProducts int64           `json:"low_stock_products"`
	TotalValue       decimal.Decimal `json:"total_value"`
	CategoryCounts   []CategoryCount `json:"category_counts"`
}

// ProductStore persists products
type ProductStore struct {
	db *gorm.DB
}

// NewProductStore returns a product store over db
func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

// joined selects products with their category and supplier names.
func (s *ProductStore) joined(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("products.*, categories.name AS category_name, suppliers.name AS supplier_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Joins("LEFT JOIN suppliers ON suppliers.id = products.supplier_id")
}

// Get returns the product with the given id
func (s *ProductStore) Get(ctx context.Context, id uint) (*model.Product, error) {
	defer prometheus.TrackDBOperation("product_get")(time.Now())

	var product model.Product
	if err := s.joined(ctx).Where("products.id = ?", id).Take(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// List returns products ordered by name
func (s *ProductStore) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("product_list")(time.Now())

	query := s.joined(ctx)
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.SupplierID != nil {
		query = query.Where("products.supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != "" {
		query = query.Where("products.status = ?", filter.Status)
	}

	products := []model.Product{}
	if err := query.Order("products.name ASC").Find(&products).Error; err != nil {
		return nil, translate(err)
	}
	return products, nil
}

// ListOrderable returns in-stock products that are not discontinued
func (s *ProductStore) ListOrderable(ctx context.Context) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("product_list")(time.Now())

	products := []model.Product{}
	err := s.joined(ctx).
		Where("products.status <> ? AND products.stock > 0", model.ProductStatusDiscontinued).
		Order("products.name ASC").
		Find(&products).Error
	if err != nil {
		return nil, translate(err)
	}
	return products, nil
}

// Create inserts product and returns it as stored
func (s *ProductStore) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	defer prometheus.TrackDBOperation("product_create")(time.Now())

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx, product.ID)
}

// Update applies patch to the product with the given id
func (s *ProductStore) Update(ctx context.Context, id uint, patch *Patch) (*model.Product, error) {
	defer prometheus.TrackDBOperation("product_update")(time.Now())

	result := s.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Updates(patch.Map())
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes the product with the given id
func (s *ProductStore) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("product_delete")(time.Now())

	result := s.db.WithContext(ctx).Delete(&model.Product{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Labels returns product names by id. Missing ids are absent from the map.
func (s *ProductStore) Labels(ctx context.Context, ids []uint) (map[uint]string, error) {
	if len(ids) == 0 {
		return map[uint]string{}, nil
	}

	var rows []model.Product
	err := s.db.WithContext(ctx).
		Select("id", "name").
		Where("id IN ?", lo.Uniq(ids)).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return lo.SliceToMap(rows, func(p model.Product) (uint, string) {
		return p.ID, p.Name
	}), nil
}

// Totals aggregates product counts and inventory value
func (s *ProductStore) Totals(ctx context.Context, lowStockThreshold int) (*InventoryTotals, error) {
	defer prometheus.TrackDBOperation("product_stats")(time.Now())

	db := s.db.WithContext(ctx)
	totals := &InventoryTotals{CategoryCounts: []CategoryCount{}}

	if err := db.Model(&model.Product{}).Count(&totals.TotalProducts).Error; err != nil {
		return nil, translate(err)
	}
	if err := db.Model(&model.Product{}).Where("stock < ?", lowStockThreshold).Count(&totals.LowStockProducts).Error; err != nil {
		return nil, translate(err)
	}

	var stock []model.Product
	if err := db.Select("stock", "price").Find(&stock).Error; err != nil {
		return nil, translate(err)
	}
	totals.TotalValue = lo.Reduce(stock, func(sum decimal.Decimal, p model.Product, _ int) decimal.Decimal {
		return sum.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}, decimal.Zero)

	err := db.Model(&model.Category{}).
		Select("categories.name AS category, COUNT(products.id) AS count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.name").
		Order("count DESC").
		Scan(&totals.CategoryCounts).Error
	if err != nil {
		return nil, translate(err)
	}

	return totals, nil
}
