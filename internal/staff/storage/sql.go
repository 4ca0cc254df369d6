package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sqlx/sqlx"

	"github.com/gaqzi/employee-reviews/internal/staff"
)

// SQLStore reads and writes the employees and departments tables created by the migrations.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Exists(ctx context.Context, id int64) (bool, error) {
	var found int64
	err := s.db.GetContext(ctx, &found, s.db.Rebind(`SELECT id FROM employees WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("failed to query employee %d: %w", id, err)
	}

	return true, nil
}

func (s *SQLStore) GetEmployee(ctx context.Context, id int64) (staff.Employee, error) {
	var e staff.Employee
	err := s.db.GetContext(
		ctx,
		&e,
		s.db.Rebind(`SELECT id, name, job_title, department_id FROM employees WHERE id = ?`),
		id,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return staff.Employee{}, &NoEmployeeError{ID: id}
		}

		return staff.Employee{}, fmt.Errorf("failed to get employee %d: %w", id, err)
	}

	return e, nil
}

func (s *SQLStore) SaveEmployee(ctx context.Context, e staff.Employee) (staff.Employee, error) {
	if e.ID != 0 {
		_, err := s.db.NamedExecContext(
			ctx,
			`UPDATE employees SET name = :name, job_title = :job_title, department_id = :department_id WHERE id = :id`,
			e,
		)
		if err != nil {
			return staff.Employee{}, fmt.Errorf("failed to update employee %d: %w", e.ID, err)
		}

		return e, nil
	}

	err := s.db.QueryRowxContext(
		ctx,
		s.db.Rebind(`INSERT INTO employees (name, job_title, department_id) VALUES (?, ?, ?) RETURNING id`),
		e.Name, e.JobTitle, e.DepartmentID,
	).Scan(&e.ID)
	if err != nil {
		return staff.Employee{}, fmt.Errorf("failed to insert employee: %w", err)
	}

	return e, nil
}

func (s *SQLStore) SaveDepartment(ctx context.Context, d staff.Department) (staff.Department, error) {
	if d.ID != 0 {
		_, err := s.db.NamedExecContext(
			ctx,
			`UPDATE departments SET name = :name, location = :location WHERE id = :id`,
			d,
		)
		if err != nil {
			return staff.Department{}, fmt.Errorf("failed to update department %d: %w", d.ID, err)
		}

		return d, nil
	}

	err := s.db.QueryRowxContext(
		ctx,
		s.db.Rebind(`INSERT INTO departments (name, location) VALUES (?, ?) RETURNING id`),
		d.Name, d.Location,
	).Scan(&d.ID)
	if err != nil {
		return staff.Department{}, fmt.Errorf("failed to insert department: %w", err)
	}

	return d, nil
}
