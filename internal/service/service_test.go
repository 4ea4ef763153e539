package service_test

import (
	"context"
	"testing"
	"time"

	"inventory-service/internal/history"
	"inventory-service/internal/model"
	"inventory-service/internal/service"
	"inventory-service/internal/store"
	"inventory-service/internal/store/storetest"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	products *service.ProductService
	orders   *service.OrderService
	query    *history.Query
	store    struct {
		products *store.ProductStore
		orders   *store.OrderStore
	}
}

// ticker returns a clock advancing one second per call
func ticker() func() time.Time {
	t := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{db: storetest.NewDB(t)}
	f.store.products = store.NewProductStore(f.db)
	f.store.orders = store.NewOrderStore(f.db)

	clock := ticker()
	recorder := history.NewRecorder(f.db, history.WithClock(clock))
	f.query = history.NewQuery(f.db, map[model.EntityKind]history.LabelSource{
		model.KindProduct: f.store.products,
		model.KindOrder:   f.store.orders,
	}, 0)

	f.products = service.NewProductService(f.store.products, recorder, f.query, service.WithClock(clock))
	f.orders = service.NewOrderService(f.store.orders, recorder, f.query, service.WithClock(clock))
	return f
}

// dropHistory makes every history write and read fail
func (f *fixture) dropHistory(t *testing.T) {
	t.Helper()
	for _, kind := range []model.EntityKind{model.KindProduct, model.KindOrder} {
		require.NoError(t, f.db.Migrator().DropTable(kind.HistoryTable()))
	}
}

func (f *fixture) entries(t *testing.T, kind model.EntityKind, id uint) []history.Entry {
	t.Helper()
	entries, err := f.query.ListForEntity(context.Background(), kind, id)
	require.NoError(t, err)
	return entries
}

func (f *fixture) product(t *testing.T, name, sku string, stock int, price string) *model.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), service.ProductInput{
		Name:  lo.ToPtr(name),
		SKU:   lo.ToPtr(sku),
		Stock: lo.ToPtr(stock),
		Price: lo.ToPtr(decimal.RequireFromString(price)),
	})
	require.NoError(t, err)
	return p
}

func line(productID uint, qty int, price string) service.OrderItemInput {
	return service.OrderItemInput{ProductID: productID, Quantity: qty, Price: decimal.RequireFromString(price)}
}
