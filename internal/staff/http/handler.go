package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/donseba/go-htmx"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"

	platformhttp "github.com/gaqzi/employee-reviews/internal/platform/http"
	"github.com/gaqzi/employee-reviews/internal/reviewing"
	"github.com/gaqzi/employee-reviews/internal/staff"
	"github.com/gaqzi/employee-reviews/internal/staff/storage"
)

type staffService interface {
	GetEmployee(ctx context.Context, id int64) (staff.Employee, error)
	SaveEmployee(ctx context.Context, e staff.Employee) (staff.Employee, error)
	SaveDepartment(ctx context.Context, d staff.Department) (staff.Department, error)
}

type reviewFinder interface {
	ForEmployee(ctx context.Context, employeeID int64) ([]*reviewing.Review, error)
}

type App struct {
	htmx    *htmx.HTMX
	decoder *form.Decoder
	staff   staffService
	reviews reviewFinder
}

func newApp(service staffService, reviews reviewFinder) *App {
	return &App{
		htmx:    htmx.New(),
		decoder: form.NewDecoder(),
		staff:   service,
		reviews: reviews,
	}
}

// EmployeesHandler serves the employees and the reviews written for them.
func EmployeesHandler(service staffService, reviews reviewFinder) func(chi.Router) {
	app := newApp(service, reviews)

	return func(r chi.Router) {
		r.Post("/", app.CreateEmployee)
		r.Get("/{id}", app.ShowEmployee)
		r.Get("/{id}/reviews", app.EmployeeReviews)
	}
}

func DepartmentsHandler(service staffService) func(chi.Router) {
	app := newApp(service, nil)

	return func(r chi.Router) {
		r.Post("/", app.CreateDepartment)
	}
}

type EmployeeBasic struct {
	ID           int64  `json:"id" form:"-"`
	Name         string `json:"name" form:"name"`
	JobTitle     string `json:"job_title" form:"job_title"`
	DepartmentID int64  `json:"department_id" form:"department_id"`
}

type DepartmentBasic struct {
	ID       int64  `json:"id" form:"-"`
	Name     string `json:"name" form:"name"`
	Location string `json:"location" form:"location"`
}

type ReviewBasic struct {
	ID         int64  `json:"id"`
	Year       int    `json:"year"`
	Summary    string `json:"summary"`
	EmployeeID int64  `json:"employee_id"`
}

func (a *App) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	var eb EmployeeBasic
	if !a.decode(h, r, &eb) {
		return
	}

	e, err := a.staff.SaveEmployee(r.Context(), staff.Employee{
		Name:         eb.Name,
		JobTitle:     eb.JobTitle,
		DepartmentID: eb.DepartmentID,
	})
	if err != nil {
		writeSaveError(h, "failed to save employee", err)
		return
	}

	platformhttp.JSON(h, http.StatusCreated, EmployeeBasic(e))
}

func (a *App) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	var db DepartmentBasic
	if !a.decode(h, r, &db) {
		return
	}

	d, err := a.staff.SaveDepartment(r.Context(), staff.Department{Name: db.Name, Location: db.Location})
	if err != nil {
		writeSaveError(h, "failed to save department", err)
		return
	}

	platformhttp.JSON(h, http.StatusCreated, DepartmentBasic(d))
}

func (a *App) ShowEmployee(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	e, ok := a.findEmployee(h, r)
	if !ok {
		return
	}

	platformhttp.JSON(h, http.StatusOK, EmployeeBasic(e))
}

func (a *App) EmployeeReviews(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	e, ok := a.findEmployee(h, r)
	if !ok {
		return
	}

	reviews, err := e.Reviews(r.Context(), a.reviews)
	if err != nil {
		platformhttp.InternalError(h, "failed to get reviews for employee", err)
		return
	}

	ret := make([]ReviewBasic, 0, len(reviews))
	for _, rev := range reviews {
		ret = append(ret, ReviewBasic{
			ID:         rev.ID(),
			Year:       rev.Year(),
			Summary:    rev.Summary(),
			EmployeeID: rev.EmployeeID(),
		})
	}

	platformhttp.JSON(h, http.StatusOK, ret)
}

func (a *App) findEmployee(h *htmx.Handler, r *http.Request) (staff.Employee, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		slog.Info("failed to parse employee id", "id", chi.URLParam(r, "id"), "error", err)
		platformhttp.Error(h, http.StatusBadRequest, "invalid id", "id")
		return staff.Employee{}, false
	}

	e, err := a.staff.GetEmployee(r.Context(), id)
	if err != nil {
		var notFound *storage.NoEmployeeError
		if errors.As(err, &notFound) {
			platformhttp.Error(h, http.StatusNotFound, fmt.Sprintf("employee by id '%d' not found", id), "")
			return staff.Employee{}, false
		}

		platformhttp.InternalError(h, "error finding employee", err)
		return staff.Employee{}, false
	}

	return e, true
}

func (a *App) decode(h *htmx.Handler, r *http.Request, v any) bool {
	if err := r.ParseForm(); err != nil {
		slog.Info("failed to parse form", "error", err)
		platformhttp.Error(h, http.StatusBadRequest, "invalid form", "")
		return false
	}

	if err := a.decoder.Decode(v, r.Form); err != nil {
		slog.Info("failed to decode form", "error", err)
		platformhttp.Error(h, http.StatusBadRequest, err.Error(), "")
		return false
	}

	return true
}

func writeSaveError(h *htmx.Handler, msg string, err error) {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		platformhttp.Error(h, http.StatusUnprocessableEntity, err.Error(), errs[0].Field())
		return
	}

	platformhttp.InternalError(h, msg, err)
}
