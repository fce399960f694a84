package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/idelchi/gogen/pkg/validator"
)

// registerExclusive adds a custom validator ensuring two fields are mutually exclusive,
// with its error message, and reports fields by their flag label.
func registerExclusive(validator *validator.Validator) error {
	if err := validator.RegisterValidationAndTranslation(
		"exclusive",
		validateExclusive,
		"{0} is mutually exclusive with {1}",
	); err != nil {
		return fmt.Errorf("registering exclusive validation: %w", err)
	}

	validator.Validator().RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})

	return nil
}

// validateExclusive checks if two fields are mutually exclusive.
// Returns false if both fields have non-empty values.
func validateExclusive(fl validator.FieldLevel) bool {
	otherFieldName := fl.Param()
	field := fl.Field()
	otherField := fl.Parent().FieldByName(otherFieldName)

	if !field.IsValid() || !otherField.IsValid() {
		return true
	}

	if field.Kind() == reflect.String && otherField.Kind() == reflect.String {
		return field.String() == "" || otherField.String() == ""
	}

	return true
}
