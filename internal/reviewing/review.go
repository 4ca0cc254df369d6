package reviewing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gaqzi/employee-reviews/internal/platform/validate"
)

// MinYear is the earliest year a review can be written for.
const MinYear = 2000

// ErrNotFound is matched by the not found errors returned from Storage.Get.
var ErrNotFound = errors.New("review not found")

// ErrNotSaved indicates an operation that needs a stored row was called on a review without an ID.
var ErrNotSaved = errors.New("review has not been saved")

// ValidationError is returned when a field is assigned a value that breaks its rule.
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %#v: %s", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// EmployeeLookup reports whether an employee with the given id exists.
type EmployeeLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Review is an employee's review for a year.
// The fields can only be changed through the setters so a Review never holds an invalid value.
// An ID of 0 means the review hasn't been saved, or has been deleted.
type Review struct {
	id         int64
	year       int
	summary    string
	employeeID int64
}

// NewReview validates every field and returns an unsaved review.
func NewReview(ctx context.Context, employees EmployeeLookup, year int, summary string, employeeID int64) (*Review, error) {
	r := &Review{}

	if err := r.SetYear(ctx, year); err != nil {
		return nil, err
	}
	if err := r.SetSummary(ctx, summary); err != nil {
		return nil, err
	}
	if err := r.SetEmployeeID(ctx, employees, employeeID); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Review) ID() int64 {
	return r.id
}

// IsSaved is true while the review represents a stored row.
func (r *Review) IsSaved() bool {
	return r.id != 0
}

func (r *Review) Year() int {
	return r.year
}

func (r *Review) Summary() string {
	return r.summary
}

func (r *Review) EmployeeID() int64 {
	return r.employeeID
}

// SetYear sets the year, it has to be MinYear or later.
func (r *Review) SetYear(ctx context.Context, year int) error {
	if err := validate.Var(ctx, year, fmt.Sprintf("min=%d", MinYear)); err != nil {
		return &ValidationError{
			Field: "year",
			Value: year,
			Err:   fmt.Errorf("year must be >= %d: %w", MinYear, err),
		}
	}

	r.year = year
	return nil
}

// SetSummary sets the summary as given, it can't be blank once whitespace is trimmed.
func (r *Review) SetSummary(ctx context.Context, summary string) error {
	if err := validate.Var(ctx, summary, "notblank"); err != nil {
		return &ValidationError{
			Field: "summary",
			Value: summary,
			Err:   fmt.Errorf("summary cannot be empty: %w", err),
		}
	}

	r.summary = summary
	return nil
}

// SetEmployeeID checks with employees that the id exists before assigning it.
func (r *Review) SetEmployeeID(ctx context.Context, employees EmployeeLookup, id int64) error {
	ok, err := employees.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up employee %d: %w", id, err)
	}
	if !ok {
		return &ValidationError{
			Field: "employee_id",
			Value: id,
			Err:   errors.New("employee id must exist in employees table"),
		}
	}

	r.employeeID = id
	return nil
}

func (r *Review) String() string {
	return fmt.Sprintf("<Review id=%d, year=%d, summary=%s, employee_id=%d>", r.id, r.year, r.summary, r.employeeID)
}

func (r *Review) row() Row {
	return Row{
		ID:         r.id,
		Year:       r.year,
		Summary:    r.summary,
		EmployeeID: r.employeeID,
	}
}

// Row is a review as it's stored, (id, year, summary, employee_id).
type Row struct {
	ID         int64  `db:"id"`
	Year       int    `db:"year"`
	Summary    string `db:"summary"`
	EmployeeID int64  `db:"employee_id"`
}

// ParseYear turns text input into a year, failing with a ValidationError when it isn't an integer.
func ParseYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ValidationError{
			Field: "year",
			Value: s,
			Err:   fmt.Errorf("year must be an integer: %w", err),
		}
	}

	return year, nil
}
