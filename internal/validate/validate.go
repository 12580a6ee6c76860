// Package validate wraps go-playground/validator for gfnprobe's configuration
// and flag checks.
//
// One shared validator instance serves single-value checks (ValidateField),
// inclusive integer ranges (ValidateRange), struct tag validation
// (ValidateStruct) and the host:port parsing used by the coordinator.
package validate

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateField validates a single value against validator tags.
//
// Example: ValidateField(12, "min=8,max=16")
func ValidateField(value any, tag string) error {
	return validate.Var(value, tag)
}

// ValidateStruct validates a struct using its `validate` tags.
func ValidateStruct(s any) error {
	return validate.Struct(s)
}

// ValidateRange checks lo <= value <= hi. An empty range (hi < lo) rejects every value.
func ValidateRange(value, lo, hi int) error {
	if hi < lo {
		return fmt.Errorf("value %d outside empty range", value)
	}
	return ValidateField(value, fmt.Sprintf("min=%d,max=%d", lo, hi))
}

// ValidateRequiredString validates that a string field is not empty.
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout validates that a timeout is > 0.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}
