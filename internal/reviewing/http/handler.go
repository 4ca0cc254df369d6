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

	platformhttp "github.com/gaqzi/employee-reviews/internal/platform/http"
	"github.com/gaqzi/employee-reviews/internal/reviewing"
)

type reviewRepository interface {
	Create(ctx context.Context, year int, summary string, employeeID int64) (*reviewing.Review, error)
	Edit(ctx context.Context, review *reviewing.Review, year int, summary string, employeeID int64) error
	Delete(ctx context.Context, review *reviewing.Review) error
	FindByID(ctx context.Context, id int64) (*reviewing.Review, error)
	GetAll(ctx context.Context) ([]*reviewing.Review, error)
}

type App struct {
	htmx    *htmx.HTMX
	decoder *form.Decoder
	reviews reviewRepository
}

func Handler(reviews reviewRepository) func(chi.Router) {
	app := App{
		htmx:    htmx.New(),
		decoder: form.NewDecoder(),
		reviews: reviews,
	}

	return func(r chi.Router) {
		r.Get("/", app.Index)
		r.Post("/", app.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.Show)
			r.Post("/edit", app.Update)
			r.Post("/delete", app.Delete)
		})
	}
}

// ReviewBasic is what's sent to clients for a review.
type ReviewBasic struct {
	ID         int64  `json:"id"`
	Year       int    `json:"year"`
	Summary    string `json:"summary"`
	EmployeeID int64  `json:"employee_id"`
}

// ReviewForm is what's accepted from clients.
// Year is taken as text so that a non-integer is reported as a validation failure.
type ReviewForm struct {
	Year       string `form:"year"`
	Summary    string `form:"summary"`
	EmployeeID int64  `form:"employee_id"`
}

func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	reviews, err := a.reviews.GetAll(r.Context())
	if err != nil {
		platformhttp.InternalError(h, "failed to fetch all reviews", err)
		return
	}

	platformhttp.JSON(h, http.StatusOK, convertToHttpObjects(reviews))
}

func (a *App) Create(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	year, rf, ok := a.decodeForm(h, r)
	if !ok {
		return
	}

	review, err := a.reviews.Create(r.Context(), year, rf.Summary, rf.EmployeeID)
	if err != nil {
		writeSaveError(h, "failed to create review", err)
		return
	}

	if h.IsHxRequest() {
		h.PushURL(fmt.Sprintf("/reviews/%d", review.ID()))
	}
	platformhttp.JSON(h, http.StatusCreated, convertToHttpObject(review))
}

func (a *App) Show(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	review, ok := a.find(h, r)
	if !ok {
		return
	}

	platformhttp.JSON(h, http.StatusOK, convertToHttpObject(review))
}

func (a *App) Update(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	review, ok := a.find(h, r)
	if !ok {
		return
	}

	year, rf, ok := a.decodeForm(h, r)
	if !ok {
		return
	}

	// Edit leaves the review untouched unless it's saved, it's the instance everyone else sees.
	if err := a.reviews.Edit(r.Context(), review, year, rf.Summary, rf.EmployeeID); err != nil {
		writeSaveError(h, "failed to update review", err)
		return
	}

	platformhttp.JSON(h, http.StatusOK, convertToHttpObject(review))
}

func (a *App) Delete(w http.ResponseWriter, r *http.Request) {
	h := a.htmx.NewHandler(w, r)

	review, ok := a.find(h, r)
	if !ok {
		return
	}

	id := review.ID()
	if err := a.reviews.Delete(r.Context(), review); err != nil {
		platformhttp.InternalError(h, "failed to delete review", err)
		return
	}

	slog.Info("deleted review", "id", id)
	h.WriteHeader(http.StatusNoContent)
}

// find loads the review named in the path, writing the error response when it can't.
func (a *App) find(h *htmx.Handler, r *http.Request) (*reviewing.Review, bool) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		slog.Info("failed to parse review id", "id", chi.URLParam(r, "id"), "error", err)
		platformhttp.Error(h, http.StatusBadRequest, "invalid id", "id")
		return nil, false
	}

	review, err := a.reviews.FindByID(r.Context(), reviewID)
	if err != nil {
		platformhttp.InternalError(h, "error finding review", err)
		return nil, false
	}
	if review == nil {
		platformhttp.Error(h, http.StatusNotFound, fmt.Sprintf("review by id '%d' not found", reviewID), "")
		return nil, false
	}

	return review, true
}

func (a *App) decodeForm(h *htmx.Handler, r *http.Request) (int, ReviewForm, bool) {
	if err := r.ParseForm(); err != nil {
		slog.Info("failed to parse form", "error", err)
		platformhttp.Error(h, http.StatusBadRequest, "invalid form", "")
		return 0, ReviewForm{}, false
	}

	var rf ReviewForm
	if err := a.decoder.Decode(&rf, r.Form); err != nil {
		slog.Info("failed to decode review form", "error", err)
		platformhttp.Error(h, http.StatusBadRequest, err.Error(), "")
		return 0, ReviewForm{}, false
	}

	year, err := reviewing.ParseYear(rf.Year)
	if err != nil {
		writeSaveError(h, "failed to parse year", err)
		return 0, ReviewForm{}, false
	}

	return year, rf, true
}

// writeSaveError answers 422 for invalid input and 500 for anything else.
func writeSaveError(h *htmx.Handler, msg string, err error) {
	var invalid *reviewing.ValidationError
	if errors.As(err, &invalid) {
		platformhttp.Error(h, http.StatusUnprocessableEntity, invalid.Error(), invalid.Field)
		return
	}

	platformhttp.InternalError(h, msg, err)
}

func convertToHttpObject(r *reviewing.Review) ReviewBasic {
	return ReviewBasic{
		ID:         r.ID(),
		Year:       r.Year(),
		Summary:    r.Summary(),
		EmployeeID: r.EmployeeID(),
	}
}

func convertToHttpObjects(rs []*reviewing.Review) []ReviewBasic {
	ret := make([]ReviewBasic, 0, len(rs))

	for _, r := range rs {
		ret = append(ret, convertToHttpObject(r))
	}

	return ret
}
