package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/msomdec/blog-dashboard/internal/domain"
)

var validate = newValidator()

func newValidator() func(any) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return func(s any) error {
		err := v.Struct(s)
		if err == nil {
			return nil
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return domain.ValidationError("invalid request")
		}
		return domain.ValidationError("%s", describe(verrs[0]))
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "email":
		return fe.Field() + " must be a valid email address"
	default:
		return fe.Field() + " is invalid"
	}
}
