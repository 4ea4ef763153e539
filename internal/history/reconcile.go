package history

import (
	"inventory-service/internal/model"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ItemInput is a submitted order line. ID is nil (or zero) for new lines.
type ItemInput struct {
	ID        *uint
	ProductID uint
	Quantity  int
	Price     decimal.Decimal
}

// ItemUpdate pairs a stored item with its modified version
type ItemUpdate struct {
	Before model.OrderItem
	After  model.OrderItem
}

// ItemPlan is the outcome of reconciling submitted lines against the
// stored items of an order.
type ItemPlan struct {
	Create  []model.OrderItem
	Update  []ItemUpdate
	Delete  []model.OrderItem
	Keep    []model.OrderItem
	Ignored []uint // submitted ids that are not items of the order, or repeats

	current map[uint]model.OrderItem
}

// ReconcileItems matches submitted lines to current items by id. Matched
// items become updates when product, quantity or price differ; lines
// without id are created; current items not submitted are deleted.
func ReconcileItems(current []model.OrderItem, submitted []ItemInput) ItemPlan {
	plan := ItemPlan{
		current: lo.KeyBy(current, func(item model.OrderItem) uint { return item.ID }),
	}

	matched := map[uint]bool{}
	for _, in := range submitted {
		if in.ID == nil || *in.ID == 0 {
			created := model.OrderItem{ProductID: in.ProductID, Quantity: in.Quantity, Price: in.Price}
			created.Recalculate()
			plan.Create = append(plan.Create, created)
			continue
		}

		id := *in.ID
		before, ok := plan.current[id]
		if !ok || matched[id] {
			plan.Ignored = append(plan.Ignored, id)
			continue
		}
		matched[id] = true

		if before.ProductID == in.ProductID && before.Quantity == in.Quantity && before.Price.Equal(in.Price) {
			plan.Keep = append(plan.Keep, before)
			continue
		}

		after := before
		after.ProductID = in.ProductID
		after.Quantity = in.Quantity
		after.Price = in.Price
		after.Recalculate()
		if after.ProductID != before.ProductID {
			after.ProductName, after.ProductSKU = nil, nil
		}
		plan.Update = append(plan.Update, ItemUpdate{Before: before, After: after})
	}

	plan.Delete = lo.Filter(current, func(item model.OrderItem, _ int) bool {
		return !matched[item.ID]
	})

	return plan
}

// IsEmpty reports whether the plan writes nothing
func (p ItemPlan) IsEmpty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// Result returns the items the order holds once the plan is applied
func (p ItemPlan) Result() []model.OrderItem {
	result := append([]model.OrderItem{}, p.Keep...)
	result = append(result, lo.Map(p.Update, func(u ItemUpdate, _ int) model.OrderItem { return u.After })...)
	return append(result, p.Create...)
}

// Total returns the order total once the plan is applied
func (p ItemPlan) Total() decimal.Decimal {
	return model.OrderTotal(p.Result())
}

// Changes returns the per-item change records: deletes, then updates, then
// creates. persisted are the order's items as stored after the plan ran;
// they supply ids and product names for new and modified items.
func (p ItemPlan) Changes(persisted []model.OrderItem) []ItemChange {
	byID := lo.KeyBy(persisted, func(item model.OrderItem) uint { return item.ID })
	fresh := lo.Filter(persisted, func(item model.OrderItem, _ int) bool {
		_, existed := p.current[item.ID]
		return !existed
	})

	changes := make([]ItemChange, 0, len(p.Delete)+len(p.Update)+len(p.Create))
	for _, item := range p.Delete {
		changes = append(changes, ItemChange{Action: model.ActionDelete, Item: item.Snapshot()})
	}
	for _, u := range p.Update {
		after := u.After
		if stored, ok := byID[after.ID]; ok {
			after = stored
		}
		changes = append(changes, ItemChange{Action: model.ActionUpdate, Before: u.Before.Snapshot(), After: after.Snapshot()})
	}
	for i, item := range p.Create {
		if len(fresh) == len(p.Create) {
			item = fresh[i]
		}
		changes = append(changes, ItemChange{Action: model.ActionCreate, Item: item.Snapshot()})
	}
	return changes
}
