// Package validate wraps go-playground/validator behind a shared
// singleton so struct tags stay the single source of truth for state
// validation.
//
// e.g. internal/storage/storage.go
//
//	type Entry struct {
//	    ID  string `json:"id" validate:"required,uuid4"`
//	    Dir string `json:"dir" validate:"required"`
//	}
package validate

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validatorInst
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}
