package reviewing

import "context"

// Storage keeps review rows in the reviews table.
type Storage interface {
	// CreateTable creates the reviews table unless it already exists.
	CreateTable(ctx context.Context) error

	// DropTable removes the reviews table if it exists.
	DropTable(ctx context.Context) error

	// Insert stores a new row and returns the id it was given, row.ID is ignored.
	Insert(ctx context.Context, row Row) (int64, error)

	// Update writes every column of the row identified by row.ID.
	Update(ctx context.Context, row Row) error

	Delete(ctx context.Context, id int64) error

	// Get finds the row or returns an error matching ErrNotFound.
	Get(ctx context.Context, id int64) (Row, error)

	All(ctx context.Context) ([]Row, error)

	ByEmployee(ctx context.Context, employeeID int64) ([]Row, error)
}
