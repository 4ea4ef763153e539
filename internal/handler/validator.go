package handler

import (
	"reflect"

	"inventory-service/internal/service"

	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to echo.Validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a validator for request bodies. Optional fields are
// validated by their value; absent and null ones pass omitempty.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(optionalValue, service.Optional[string]{}, service.Optional[uint]{})
	return &Validator{validate: v}
}

// Validate checks the validate tags of i
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

func optionalValue(field reflect.Value) any {
	if o, ok := field.Interface().(interface{ Raw() any }); ok {
		return o.Raw()
	}
	return nil
}
