package dto

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// Validate runs the payload rules and converts failures into a
// VALIDATION_FAILED domain error with per-field details.
func Validate(v validation.Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			details[field] = fieldErr.Error()
		}
		return apperrors.NewValidationError("request validation failed", details)
	}
	return apperrors.NewValidationError(err.Error(), nil)
}
