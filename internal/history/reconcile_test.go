package history

import (
	"testing"

	"inventory-service/internal/model"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stored(id, productID uint, qty int, price string) model.OrderItem {
	item := model.OrderItem{ID: id, OrderID: 1, ProductID: productID, Quantity: qty, Price: decimal.RequireFromString(price)}
	item.Recalculate()
	return item
}

func input(id *uint, productID uint, qty int, price string) ItemInput {
	return ItemInput{ID: id, ProductID: productID, Quantity: qty, Price: decimal.RequireFromString(price)}
}

func TestReconcileItemsThreeWay(t *testing.T) {
	current := []model.OrderItem{
		stored(10, 1, 2, "3"), // kept
		stored(11, 2, 1, "5"), // removed
		stored(12, 4, 1, "2"), // modified
	}
	submitted := []ItemInput{
		input(lo.ToPtr(uint(10)), 1, 2, "3.00"),
		input(lo.ToPtr(uint(12)), 4, 3, "2"),
		input(nil, 3, 1, "4"),
	}

	plan := ReconcileItems(current, submitted)

	require.Len(t, plan.Keep, 1)
	assert.EqualValues(t, 10, plan.Keep[0].ID)

	require.Len(t, plan.Update, 1)
	assert.EqualValues(t, 12, plan.Update[0].After.ID)
	assert.Equal(t, 3, plan.Update[0].After.Quantity)
	assert.True(t, decimal.NewFromInt(6).Equal(plan.Update[0].After.Subtotal))
	assert.Equal(t, 1, plan.Update[0].Before.Quantity)

	require.Len(t, plan.Delete, 1)
	assert.EqualValues(t, 11, plan.Delete[0].ID)

	require.Len(t, plan.Create, 1)
	assert.EqualValues(t, 3, plan.Create[0].ProductID)
	assert.True(t, decimal.NewFromInt(4).Equal(plan.Create[0].Subtotal))

	assert.Empty(t, plan.Ignored)
	assert.False(t, plan.IsEmpty())
	assert.True(t, decimal.NewFromInt(16).Equal(plan.Total()), plan.Total().String())
}

func TestReconcileItemsUnchanged(t *testing.T) {
	current := []model.OrderItem{stored(10, 1, 2, "3")}
	plan := ReconcileItems(current, []ItemInput{input(lo.ToPtr(uint(10)), 1, 2, "3")})

	assert.True(t, plan.IsEmpty())
	assert.Empty(t, plan.Changes(current))
}

func TestReconcileItemsIgnoresForeignAndRepeatedIDs(t *testing.T) {
	current := []model.OrderItem{stored(10, 1, 2, "3")}
	plan := ReconcileItems(current, []ItemInput{
		input(lo.ToPtr(uint(10)), 1, 2, "3"),
		input(lo.ToPtr(uint(10)), 1, 9, "3"),
		input(lo.ToPtr(uint(99)), 1, 1, "1"),
	})

	assert.Equal(t, []uint{10, 99}, plan.Ignored)
	assert.True(t, plan.IsEmpty())
}

func TestReconcileItemsZeroIDIsNew(t *testing.T) {
	plan := ReconcileItems(nil, []ItemInput{input(lo.ToPtr(uint(0)), 1, 1, "1")})
	assert.Len(t, plan.Create, 1)
}

func TestItemPlanChangesUsesPersistedItems(t *testing.T) {
	current := []model.OrderItem{stored(10, 1, 2, "3"), stored(11, 2, 1, "5")}
	plan := ReconcileItems(current, []ItemInput{
		input(lo.ToPtr(uint(10)), 1, 5, "3"),
		input(nil, 3, 1, "4"),
	})

	name := "Gadget"
	persisted := []model.OrderItem{stored(10, 1, 5, "3"), stored(13, 3, 1, "4")}
	persisted[1].ProductName = &name

	changes := plan.Changes(persisted)
	require.Len(t, changes, 3)

	assert.Equal(t, model.ActionDelete, changes[0].Action)
	assert.EqualValues(t, 11, changes[0].Item["id"])

	assert.Equal(t, model.ActionUpdate, changes[1].Action)
	assert.Equal(t, 2, changes[1].Before["quantity"])
	assert.Equal(t, 5, changes[1].After["quantity"])

	assert.Equal(t, model.ActionCreate, changes[2].Action)
	assert.EqualValues(t, 13, changes[2].Item["id"])
	assert.Equal(t, "Gadget", changes[2].Item["product_name"])
}
