package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sqlx/sqlx"

	"github.com/gaqzi/employee-reviews/internal/reviewing"
)

const (
	createTableSQLite = `CREATE TABLE IF NOT EXISTS reviews (
	id INTEGER PRIMARY KEY,
	year INTEGER,
	summary TEXT,
	employee_id INTEGER,
	FOREIGN KEY (employee_id) REFERENCES employees(id)
)`

	createTablePostgres = `CREATE TABLE IF NOT EXISTS reviews (
	id SERIAL PRIMARY KEY,
	year INTEGER,
	summary TEXT,
	employee_id INTEGER REFERENCES employees(id)
)`

	selectColumns = `SELECT id, year, summary, employee_id FROM reviews`
)

// SQLStore keeps reviews in a relational database through sqlx.
// Queries are written with ? placeholders and rebound for the driver in use.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) CreateTable(ctx context.Context) error {
	ddl := createTableSQLite
	if s.db.DriverName() == "postgres" {
		ddl = createTablePostgres
	}

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create reviews table: %w", err)
	}

	return nil
}

func (s *SQLStore) DropTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS reviews`); err != nil {
		return fmt.Errorf("failed to drop reviews table: %w", err)
	}

	return nil
}

func (s *SQLStore) Insert(ctx context.Context, row reviewing.Row) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(
		ctx,
		s.db.Rebind(`INSERT INTO reviews (year, summary, employee_id) VALUES (?, ?, ?) RETURNING id`),
		row.Year, row.Summary, row.EmployeeID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert review: %w", err)
	}

	return id, nil
}

func (s *SQLStore) Update(ctx context.Context, row reviewing.Row) error {
	_, err := s.db.ExecContext(
		ctx,
		s.db.Rebind(`UPDATE reviews SET year = ?, summary = ?, employee_id = ? WHERE id = ?`),
		row.Year, row.Summary, row.EmployeeID, row.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update review %d: %w", row.ID, err)
	}

	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM reviews WHERE id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete review %d: %w", id, err)
	}

	return nil
}

func (s *SQLStore) Get(ctx context.Context, id int64) (reviewing.Row, error) {
	var row reviewing.Row
	err := s.db.GetContext(ctx, &row, s.db.Rebind(selectColumns+` WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reviewing.Row{}, &NoReviewError{ID: id}
		}

		return reviewing.Row{}, fmt.Errorf("failed to get review %d: %w", id, err)
	}

	return row, nil
}

func (s *SQLStore) All(ctx context.Context) ([]reviewing.Row, error) {
	rows := []reviewing.Row{}
	if err := s.db.SelectContext(ctx, &rows, selectColumns+` ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to select reviews: %w", err)
	}

	return rows, nil
}

func (s *SQLStore) ByEmployee(ctx context.Context, employeeID int64) ([]reviewing.Row, error) {
	rows := []reviewing.Row{}
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(selectColumns+` WHERE employee_id = ? ORDER BY id`), employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to select reviews for employee %d: %w", employeeID, err)
	}

	return rows, nil
}
