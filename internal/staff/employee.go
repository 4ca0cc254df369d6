package staff

import (
	"context"
	"fmt"

	"github.com/gaqzi/employee-reviews/internal/platform/validate"
	"github.com/gaqzi/employee-reviews/internal/reviewing"
)

type Department struct {
	ID       int64  `db:"id"`
	Name     string `db:"name" validate:"notblank"`
	Location string `db:"location" validate:"notblank"`
}

type Employee struct {
	ID           int64  `db:"id"`
	Name         string `db:"name" validate:"notblank"`
	JobTitle     string `db:"job_title" validate:"notblank"`
	DepartmentID int64  `db:"department_id"`
}

type reviewFinder interface {
	ForEmployee(ctx context.Context, employeeID int64) ([]*reviewing.Review, error)
}

// Reviews returns every review written for the employee.
func (e Employee) Reviews(ctx context.Context, reviews reviewFinder) ([]*reviewing.Review, error) {
	ret, err := reviews.ForEmployee(ctx, e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for employee: %w", err)
	}

	return ret, nil
}

type Service struct {
	store Storage
}

func NewService(store Storage) *Service {
	return &Service{store: store}
}

// Exists reports whether an employee with the id is stored.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.store.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check employee exists: %w", err)
	}

	return ok, nil
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	e, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

func (s *Service) SaveEmployee(ctx context.Context, e Employee) (Employee, error) {
	if err := validate.Struct(ctx, e); err != nil {
		return Employee{}, fmt.Errorf("failed to validate employee: %w", err)
	}

	e, err := s.store.SaveEmployee(ctx, e)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to store employee: %w", err)
	}

	return e, nil
}

func (s *Service) SaveDepartment(ctx context.Context, d Department) (Department, error) {
	if err := validate.Struct(ctx, d); err != nil {
		return Department{}, fmt.Errorf("failed to validate department: %w", err)
	}

	d, err := s.store.SaveDepartment(ctx, d)
	if err != nil {
		return Department{}, fmt.Errorf("failed to store department: %w", err)
	}

	return d, nil
}
