package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	platformhttp "github.com/gaqzi/employee-reviews/internal/platform/http"
	"github.com/gaqzi/employee-reviews/internal/reviewing"
	reviewstorage "github.com/gaqzi/employee-reviews/internal/reviewing/storage"
	"github.com/gaqzi/employee-reviews/internal/staff"
	staffhttp "github.com/gaqzi/employee-reviews/internal/staff/http"
	staffstorage "github.com/gaqzi/employee-reviews/internal/staff/storage"
)

func newRouter(t *testing.T) (chi.Router, *staff.Service, *reviewing.Repository) {
	service := staff.NewService(staffstorage.NewMemoryStore())
	reviews := reviewing.NewRepository(reviewstorage.NewMemoryStore(), service)
	require.NoError(t, reviews.CreateTable(context.Background()))
	router := chi.NewRouter()
	router.Route("/employees", staffhttp.EmployeesHandler(service, reviews))
	router.Route("/departments", staffhttp.DepartmentsHandler(service))

	return router, service, reviews
}

func postForm(router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec
}

func TestApp_CreateEmployee(t *testing.T) {
	t.Run("returns the stored employee as json", func(t *testing.T) {
		router, service, _ := newRouter(t)

		rec := postForm(router, "/employees", url.Values{"name": {"Jane Doe"}, "job_title": {"Engineer"}, "department_id": {"1"}})

		require.Equal(t, http.StatusCreated, rec.Code)
		var actual staffhttp.EmployeeBasic
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&actual))
		require.Equal(t, staffhttp.EmployeeBasic{ID: 1, Name: "Jane Doe", JobTitle: "Engineer", DepartmentID: 1}, actual)
		ok, err := service.Exists(context.Background(), actual.ID)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("a blank name is unprocessable and names the field", func(t *testing.T) {
		router, service, _ := newRouter(t)

		rec := postForm(router, "/employees", url.Values{"name": {"  "}, "job_title": {"Engineer"}})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var actual platformhttp.ErrorBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&actual))
		require.Equal(t, "Name", actual.Field)
		ok, err := service.Exists(context.Background(), 1)
		require.NoError(t, err)
		require.False(t, ok, "expected nothing to be stored")
	})

	t.Run("a missing job title is unprocessable and names the field", func(t *testing.T) {
		router, _, _ := newRouter(t)

		rec := postForm(router, "/employees", url.Values{"name": {"Jane Doe"}})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var actual platformhttp.ErrorBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&actual))
		require.Equal(t, "JobTitle", actual.Field)
	})

	t.Run("a department_id that isn't a number is a bad request", func(t *testing.T) {
		router, _, _ := newRouter(t)

		rec := postForm(router, "/employees", url.Values{"name": {"Jane Doe"}, "job_title": {"Engineer"}, "department_id": {"one"}})

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestApp_CreateDepartment(t *testing.T) {
	t.Run("a blank location is unprocessable", func(t *testing.T) {
		router, _, _ := newRouter(t)

		rec := postForm(router, "/departments", url.Values{"name": {"Engineering"}})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("returns the stored department as json", func(t *testing.T) {
		router, _, _ := newRouter(t)

		rec := postForm(router, "/departments", url.Values{"name": {"Engineering"}, "location": {"Stockholm"}})

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Contains(t, rec.Body.String(), `"location":"Stockholm"`)
	})
}

func TestApp_EmployeeReviews(t *testing.T) {
	ctx := context.Background()

	t.Run("returns only the reviews written for the employee", func(t *testing.T) {
		router, service, reviews := newRouter(t)
		jane, err := service.SaveEmployee(ctx, staff.Employee{Name: "Jane Doe", JobTitle: "Engineer"})
		require.NoError(t, err)
		john, err := service.SaveEmployee(ctx, staff.Employee{Name: "John Doe", JobTitle: "Designer"})
		require.NoError(t, err)
		_, err = reviews.Create(ctx, 2023, "Good performance", jane.ID)
		require.NoError(t, err)
		_, err = reviews.Create(ctx, 2023, "Needs improvement", john.ID)
		require.NoError(t, err)
		_, err = reviews.Create(ctx, 2024, "Outstanding", jane.ID)
		require.NoError(t, err)

		rec := get(router, "/employees/1/reviews")

		require.Equal(t, http.StatusOK, rec.Code)
		var actual []staffhttp.ReviewBasic
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&actual))
		require.Equal(t, []staffhttp.ReviewBasic{
			{ID: 1, Year: 2023, Summary: "Good performance", EmployeeID: jane.ID},
			{ID: 3, Year: 2024, Summary: "Outstanding", EmployeeID: jane.ID},
		}, actual)
	})

	t.Run("an employee without reviews gets an empty list", func(t *testing.T) {
		router, service, _ := newRouter(t)
		_, err := service.SaveEmployee(ctx, staff.Employee{Name: "Jane Doe", JobTitle: "Engineer"})
		require.NoError(t, err)

		rec := get(router, "/employees/1/reviews")

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("an unknown employee is not found", func(t *testing.T) {
		router, _, _ := newRouter(t)

		rec := get(router, "/employees/42/reviews")

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("an id that isn't a number is a bad request", func(t *testing.T) {
		router, _, _ := newRouter(t)

		rec := get(router, "/employees/one/reviews")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var actual platformhttp.ErrorBody
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&actual))
		require.Equal(t, "id", actual.Field)
	})
}

func TestApp_ShowEmployee(t *testing.T) {
	t.Run("returns the employee as json", func(t *testing.T) {
		router, service, _ := newRouter(t)
		_, err := service.SaveEmployee(context.Background(), staff.Employee{Name: "Jane Doe", JobTitle: "Engineer"})
		require.NoError(t, err)

		rec := get(router, "/employees/1")

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"id":1,"name":"Jane Doe","job_title":"Engineer","department_id":0}`, rec.Body.String())
	})
}
