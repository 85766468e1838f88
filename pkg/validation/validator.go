package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates v against its `validate` struct tags and reports the
// first failure in a user-friendly format.
func Struct(v any) error {
	if v == nil {
		return errors.New("config cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		default:
			return fmt.Errorf("%s: validation failed (%s=%s)", field, e.Tag(), e.Param())
		}
	}

	return err
}
