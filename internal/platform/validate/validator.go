package validate

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// notblank rejects strings that are empty once surrounding whitespace is trimmed.
	if err := validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic("failed to register notblank validation: " + err.Error())
	}
}

// Struct is a thin wrapper around validator.Validate's StructCtx.
// This exists purely to ensure that we only have one validator cache.
func Struct(ctx context.Context, s any) error {
	return validate.StructCtx(ctx, s)
}

// Var validates a single value against tag, e.g. "min=2000".
func Var(ctx context.Context, v any, tag string) error {
	return validate.VarCtx(ctx, v, tag)
}
