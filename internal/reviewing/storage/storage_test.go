package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gaqzi/employee-reviews/internal/reviewing"
	"github.com/gaqzi/employee-reviews/internal/reviewing/storage"
	"github.com/gaqzi/employee-reviews/test/a"
)

// Fixture is a store with the reviews table created, and two employees that rows can reference.
type Fixture struct {
	Store     reviewing.Storage
	Employees [2]int64
}

// StorageTest is a base suite used to test across the implementations of reviewing.Storage.
// It's implemented this way to ensure that the implementations can be used interchangeably, and to allow for the use
// of lighter implementations during testing.
func StorageTest(t *testing.T, ctx context.Context, fixtureFactory func(t *testing.T) Fixture) {
	t.Run("CreateTable", func(t *testing.T) {
		t.Run("creating the table when it already exists does nothing", func(t *testing.T) {
			f := fixtureFactory(t)
			_, err := f.Store.Insert(ctx, a.Row().WithEmployeeID(f.Employees[0]).Build())
			require.NoError(t, err)

			require.NoError(t, f.Store.CreateTable(ctx))

			rows, err := f.Store.All(ctx)
			require.NoError(t, err)
			require.Len(t, rows, 1, "expected the existing rows to be kept")
		})
	})

	t.Run("DropTable", func(t *testing.T) {
		t.Run("removes the table so reads fail, and dropping again does nothing", func(t *testing.T) {
			f := fixtureFactory(t)

			require.NoError(t, f.Store.DropTable(ctx))
			require.NoError(t, f.Store.DropTable(ctx), "expected dropping a missing table to be a no-op")

			_, err := f.Store.All(ctx)
			require.Error(t, err, "expected reading a dropped table to fail")
		})

		t.Run("the table can be created again after being dropped and starts out empty", func(t *testing.T) {
			f := fixtureFactory(t)
			_, err := f.Store.Insert(ctx, a.Row().WithEmployeeID(f.Employees[0]).Build())
			require.NoError(t, err)

			require.NoError(t, f.Store.DropTable(ctx))
			require.NoError(t, f.Store.CreateTable(ctx))

			rows, err := f.Store.All(ctx)
			require.NoError(t, err)
			require.Empty(t, rows)
		})
	})

	t.Run("Insert", func(t *testing.T) {
		t.Run("returns a new id for every row", func(t *testing.T) {
			f := fixtureFactory(t)

			id1, err := f.Store.Insert(ctx, a.Row().WithEmployeeID(f.Employees[0]).Build())
			require.NoError(t, err)
			id2, err := f.Store.Insert(ctx, a.Row().WithEmployeeID(f.Employees[0]).Build())
			require.NoError(t, err)

			require.NotZero(t, id1, "expected an id to be generated")
			require.NotEqual(t, id1, id2, "expected every insert to get its own id")
		})

		t.Run("ignores any id on the row", func(t *testing.T) {
			f := fixtureFactory(t)

			id, err := f.Store.Insert(ctx, a.Row().WithID(1_000).WithEmployeeID(f.Employees[0]).Build())
			require.NoError(t, err)

			require.NotEqual(t, int64(1_000), id)
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("returns an error when an item with the given PK doesn't exist in the store", func(t *testing.T) {
			f := fixtureFactory(t)

			_, err := f.Store.Get(ctx, 1_000)
			require.Error(t, err, "expected to not have found an item when it's not in the store")

			var actualErr *storage.NoReviewError
			require.ErrorAs(t, err, &actualErr, "expected the specific error for not found")
			require.ErrorIs(t, err, reviewing.ErrNotFound)
		})

		t.Run("after inserting, gets back the same values when asking by ID", func(t *testing.T) {
			f := fixtureFactory(t)
			row := a.Row().WithSummary("  Exceeded expectations ").WithEmployeeID(f.Employees[1]).Build()
			id, err := f.Store.Insert(ctx, row)
			require.NoError(t, err)

			actual, err := f.Store.Get(ctx, id)
			require.NoError(t, err, "expected to have fetched successfully when just inserting the row")

			row.ID = id
			require.Equal(t, row, actual, "expected the row to be stored as given")
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("writes every column of the existing row without adding rows", func(t *testing.T) {
			f := fixtureFactory(t)
			id, err := f.Store.Insert(ctx, a.Row().WithEmployeeID(f.Employees[0]).Build())
			require.NoError(t, err)
			expected := a.Row().
				WithID(id).
				WithYear(2024).
				WithSummary("Promoted").
				WithEmployeeID(f.Employees[1]).
				Build()

			require.NoError(t, f.Store.Update(ctx, expected))

			actual, err := f.Store.Get(ctx, id)
			require.NoError(t, err)
			require.Equal(t, expected, actual)
			rows, err := f.Store.All(ctx)
			require.NoError(t, err)
			require.Len(t, rows, 1, "expected no new row to have been created")
		})

		t.Run("a row that doesn't exist is left alone", func(t *testing.T) {
			f := fixtureFactory(t)

			require.NoError(t, f.Store.Update(ctx, a.Row().WithID(1_000).WithEmployeeID(f.Employees[0]).Build()))

			rows, err := f.Store.All(ctx)
			require.NoError(t, err)
			require.Empty(t, rows)
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("the row can't be found after being deleted", func(t *testing.T) {
			f := fixtureFactory(t)
			id, err := f.Store.Insert(ctx, a.Row().WithEmployeeID(f.Employees[0]).Build())
			require.NoError(t, err)

			require.NoError(t, f.Store.Delete(ctx, id))

			_, err = f.Store.Get(ctx, id)
			require.ErrorIs(t, err, reviewing.ErrNotFound)
		})

		t.Run("deleting a row that doesn't exist does nothing", func(t *testing.T) {
			f := fixtureFactory(t)

			require.NoError(t, f.Store.Delete(ctx, 1_000))
		})
	})

	t.Run("All", func(t *testing.T) {
		t.Run("with no stored reviews it returns an empty list", func(t *testing.T) {
			f := fixtureFactory(t)

			rows, err := f.Store.All(ctx)
			require.NoError(t, err)

			require.Empty(t, rows, "expected to have gotten back no items")
		})

		t.Run("returns every row in the order they were inserted", func(t *testing.T) {
			f := fixtureFactory(t)
			first := a.Row().WithEmployeeID(f.Employees[0]).WithYear(2021).Build()
			second := a.Row().WithEmployeeID(f.Employees[1]).WithYear(2022).Build()
			var err error
			first.ID, err = f.Store.Insert(ctx, first)
			require.NoError(t, err)
			second.ID, err = f.Store.Insert(ctx, second)
			require.NoError(t, err)

			actual, err := f.Store.All(ctx)
			require.NoError(t, err)

			require.Equal(t, []reviewing.Row{first, second}, actual)
		})
	})

	t.Run("ByEmployee", func(t *testing.T) {
		t.Run("only returns the rows referencing the employee", func(t *testing.T) {
			f := fixtureFactory(t)
			mine := a.Row().WithEmployeeID(f.Employees[0]).Build()
			var err error
			mine.ID, err = f.Store.Insert(ctx, mine)
			require.NoError(t, err)
			_, err = f.Store.Insert(ctx, a.Row().WithEmployeeID(f.Employees[1]).Build())
			require.NoError(t, err)

			actual, err := f.Store.ByEmployee(ctx, f.Employees[0])
			require.NoError(t, err)

			require.Equal(t, []reviewing.Row{mine}, actual)
		})

		t.Run("an employee without reviews gets an empty list", func(t *testing.T) {
			f := fixtureFactory(t)

			actual, err := f.Store.ByEmployee(ctx, f.Employees[0])
			require.NoError(t, err)

			require.Empty(t, actual)
		})
	})
}
