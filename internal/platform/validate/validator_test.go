package validate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/gaqzi/employee-reviews/internal/platform/validate"
)

type testStruct struct {
	Hello string `validate:"required"`
}

func TestStruct(t *testing.T) {
	ctx := context.Background()

	require.Error(t, validate.Struct(ctx, testStruct{}), "expected an error for an empty object")
	require.NoError(t, validate.Struct(ctx, testStruct{"Hello"}), "when the struct is valid don't error")
}

func TestVar(t *testing.T) {
	ctx := context.Background()

	t.Run("min fails below the boundary and passes on it", func(t *testing.T) {
		err := validate.Var(ctx, 1999, "min=2000")
		require.Error(t, err)
		var errs validator.ValidationErrors
		require.True(t, errors.As(err, &errs), "expected validator.ValidationErrors")

		require.NoError(t, validate.Var(ctx, 2000, "min=2000"))
	})

	t.Run("notblank rejects whitespace only strings", func(t *testing.T) {
		require.Error(t, validate.Var(ctx, "", "notblank"))
		require.Error(t, validate.Var(ctx, " \t\n ", "notblank"))
		require.NoError(t, validate.Var(ctx, "  ok  ", "notblank"))
	})
}
