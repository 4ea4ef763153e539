package history

import (
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// Diff compares every field of proposed with the same field of before and
// returns the ones whose value differs. Fields absent from proposed are
// untouched; a field absent from before compares as nil. An empty result
// means nothing changed.
func Diff(before, proposed map[string]any) FieldChanges {
	changes := FieldChanges{}
	for field, after := range proposed {
		current := before[field]
		if Equal(current, after) {
			continue
		}
		changes[field] = FieldChange{Before: deref(current), After: deref(after)}
	}
	return changes
}

// Equal reports strict value equality. Pointers compare by pointee,
// decimals and times by value. Maps, slices and other non-comparable
// values never compare equal.
func Equal(a, b any) bool {
	a, b = deref(a), deref(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch x := a.(type) {
	case decimal.Decimal:
		y, ok := b.(decimal.Decimal)
		return ok && x.Equal(y)
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}

	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// deref unwraps pointers; a nil pointer becomes nil.
func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}
