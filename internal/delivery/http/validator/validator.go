// Package validator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound input.
package validator

import (
	playground "github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Validator wraps a playground validator instance.
type Validator struct {
	validate *playground.Validate
}

// New creates a Validator with struct tag validation enabled.
func New() *Validator {
	return &Validator{validate: playground.New(playground.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	return errors.WithStack(v.validate.Struct(i))
}
