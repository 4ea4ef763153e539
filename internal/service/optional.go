package service

import (
	"bytes"
	"encoding/json"

	"inventory-service/internal/store"
)

// Optional is an input field for a nullable column. Set records that the
// field was supplied; a supplied null leaves Value nil and clears the column.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a supplied value
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a supplied null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON marks the field supplied, including for a JSON null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON writes the value or null
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// Raw returns the value, or untyped nil when absent or null.
func (o Optional[T]) Raw() any {
	if o.Value == nil {
		return nil
	}
	return *o.Value
}

func setOptional[T any](p *store.Patch, column string, o Optional[T]) {
	if o.Set {
		p.Set(column, o.Raw())
	}
}
