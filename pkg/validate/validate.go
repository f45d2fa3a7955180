// Package validate runs struct-tag validation and reports failures as a
// field→message map, which is the shape the response envelope serialises.
//
// Rules use go-playground/validator `validate` tags:
//
//	type CreateProduct struct {
//	    Name  string  `json:"name"  validate:"required,max=255"`
//	    Price float64 `json:"price" validate:"gte=0"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json name so error maps line up with the
	// request payload, not Go field names.
	val.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return val
}

// Struct validates dest and returns a field→message map, empty when valid.
func Struct(dest interface{}) map[string]string {
	errs := map[string]string{}

	err := v.Struct(dest)
	if err == nil {
		return errs
	}

	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range invalid {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

// HasErrors reports whether the map contains any failure.
func HasErrors(errs map[string]string) bool {
	return len(errs) > 0
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s may not exceed %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
