package store_test

import (
	"context"
	"testing"
	"time"

	"inventory-service/internal/model"
	"inventory-service/internal/store"
	"inventory-service/internal/store/storetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(productID uint, qty int, price string) model.OrderItem {
	return model.OrderItem{ProductID: productID, Quantity: qty, Price: decimal.RequireFromString(price)}
}

func TestOrderStoreCreateAndGet(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	products := store.NewProductStore(db)
	orders := store.NewOrderStore(db)

	widget, err := products.Create(ctx, newProduct("Widget", "W-1", 10, "3"))
	require.NoError(t, err)

	created, err := orders.Create(ctx, &model.Order{
		OrderNumber:  "ORD-260101-001",
		CustomerName: "Ada",
		Status:       model.OrderStatusPending,
		TotalAmount:  decimal.NewFromInt(6),
		Items:        []model.OrderItem{item(widget.ID, 2, "3")},
	})
	require.NoError(t, err)
	require.Len(t, created.Items, 1)
	assert.True(t, decimal.NewFromInt(6).Equal(created.Items[0].Subtotal))
	require.NotNil(t, created.Items[0].ProductName)
	assert.Equal(t, "Widget", *created.Items[0].ProductName)
	assert.Equal(t, "W-1", *created.Items[0].ProductSKU)
}

func TestOrderStoreUpdateItems(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	orders := store.NewOrderStore(db)

	created, err := orders.Create(ctx, &model.Order{
		OrderNumber:  "ORD-260101-001",
		CustomerName: "Ada",
		Status:       model.OrderStatusPending,
		Items:        []model.OrderItem{item(1, 2, "3"), item(2, 1, "5")},
	})
	require.NoError(t, err)
	require.Len(t, created.Items, 2)

	keep := created.Items[0]
	keep.Quantity = 4
	patch := store.NewPatch().Set("total_amount", decimal.NewFromInt(16)).Touch(time.Now())
	updated, err := orders.Update(ctx, created.ID, patch, store.ItemWrites{
		Update: []model.OrderItem{keep},
		Delete: []uint{created.Items[1].ID},
		Create: []model.OrderItem{item(3, 1, "4")},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, 4, updated.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(12).Equal(updated.Items[0].Subtotal))
	assert.EqualValues(t, 3, updated.Items[1].ProductID)
	assert.True(t, decimal.NewFromInt(16).Equal(updated.TotalAmount))
}

func TestOrderStoreUpdateWithoutItemWritesKeepsItems(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	orders := store.NewOrderStore(db)

	assert.True(t, store.ItemWrites{}.IsEmpty())
	assert.False(t, store.ItemWrites{Delete: []uint{1}}.IsEmpty())

	created, err := orders.Create(ctx, &model.Order{
		OrderNumber:  "ORD-260101-001",
		CustomerName: "Ada",
		Status:       model.OrderStatusPending,
		Items:        []model.OrderItem{item(1, 2, "3")},
	})
	require.NoError(t, err)

	patch := store.NewPatch().Set("status", model.OrderStatusProcessing).Touch(time.Now())
	updated, err := orders.Update(ctx, created.ID, patch, store.ItemWrites{})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, updated.Status)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, created.Items[0].ID, updated.Items[0].ID)
}

func TestOrderStoreUpdateMissingRollsBack(t *testing.T) {
	orders := store.NewOrderStore(storetest.NewDB(t))

	_, err := orders.Update(context.Background(), 5, store.NewPatch().Touch(time.Now()), store.ItemWrites{
		Create: []model.OrderItem{item(1, 1, "1")},
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOrderStoreDeleteCascades(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	orders := store.NewOrderStore(db)

	created, err := orders.Create(ctx, &model.Order{
		OrderNumber:  "ORD-260101-001",
		CustomerName: "Ada",
		Status:       model.OrderStatusPending,
		Items:        []model.OrderItem{item(1, 1, "1")},
	})
	require.NoError(t, err)

	require.NoError(t, orders.Delete(ctx, created.ID))

	var remaining int64
	require.NoError(t, db.Model(&model.OrderItem{}).Where("order_id = ?", created.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
	assert.ErrorIs(t, orders.Delete(ctx, created.ID), store.ErrNotFound)
}

func TestNextOrderNumber(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	orders := store.NewOrderStore(db)
	day := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	first, err := orders.NextOrderNumber(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "ORD-261019-001", first)

	for _, n := range []string{"ORD-261019-001", "ORD-261019-002", "ORD-261018-007"} {
		_, err := orders.Create(ctx, &model.Order{OrderNumber: n, CustomerName: "x", Status: model.OrderStatusPending})
		require.NoError(t, err)
	}

	next, err := orders.NextOrderNumber(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "ORD-261019-003", next)
}

func TestOrderStoreSummaryAndLabels(t *testing.T) {
	db := storetest.NewDB(t)
	ctx := context.Background()
	orders := store.NewOrderStore(db)

	var ids []uint
	for i, status := range []string{model.OrderStatusPending, model.OrderStatusCompleted, model.OrderStatusCompleted} {
		o, err := orders.Create(ctx, &model.Order{
			OrderNumber:  "ORD-260101-00" + string(rune('1'+i)),
			CustomerName: "x",
			Status:       status,
			TotalAmount:  decimal.NewFromInt(int64(10 * (i + 1))),
		})
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	summary, err := orders.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, model.OrderStatusCompleted, summary[0].Status)
	assert.EqualValues(t, 2, summary[0].Count)
	assert.True(t, decimal.NewFromInt(50).Equal(summary[0].Revenue))

	labels, err := orders.Labels(ctx, ids[:1])
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{ids[0]: "ORD-260101-001"}, labels)
}
