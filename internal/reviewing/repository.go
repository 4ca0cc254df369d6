package reviewing

import (
	"context"
	"errors"
	"fmt"
)

// Repository validates, persists, and caches reviews.
// It keeps an identity map so that every stored row is represented by exactly one *Review
// for as long as the Repository lives. Nothing is ever evicted except on Delete.
// A Repository is not safe for concurrent use.
type Repository struct {
	store     Storage
	employees EmployeeLookup
	identity  map[int64]*Review
}

func NewRepository(store Storage, employees EmployeeLookup) *Repository {
	return &Repository{
		store:     store,
		employees: employees,
		identity:  make(map[int64]*Review),
	}
}

func (r *Repository) CreateTable(ctx context.Context) error {
	if err := r.store.CreateTable(ctx); err != nil {
		return fmt.Errorf("failed to create reviews table: %w", err)
	}

	return nil
}

func (r *Repository) DropTable(ctx context.Context) error {
	if err := r.store.DropTable(ctx); err != nil {
		return fmt.Errorf("failed to drop reviews table: %w", err)
	}

	// The rows are gone, so the cached reviews become unsaved reviews.
	for _, review := range r.identity {
		review.id = 0
	}
	clear(r.identity)

	return nil
}

// NewReview returns an unsaved review, validating the employee against the repository's lookup.
func (r *Repository) NewReview(ctx context.Context, year int, summary string, employeeID int64) (*Review, error) {
	return NewReview(ctx, r.employees, year, summary, employeeID)
}

// SetEmployeeID is Review.SetEmployeeID using the repository's lookup.
func (r *Repository) SetEmployeeID(ctx context.Context, review *Review, employeeID int64) error {
	return review.SetEmployeeID(ctx, r.employees, employeeID)
}

// Create validates and immediately saves a new review.
func (r *Repository) Create(ctx context.Context, year int, summary string, employeeID int64) (*Review, error) {
	review, err := r.NewReview(ctx, year, summary, employeeID)
	if err != nil {
		return nil, err
	}

	if err := r.Save(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// Save inserts the review when it has no ID, setting the ID on it, and otherwise updates it.
func (r *Repository) Save(ctx context.Context, review *Review) error {
	if review.IsSaved() {
		return r.Update(ctx, review)
	}

	id, err := r.store.Insert(ctx, review.row())
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	review.id = id
	r.identity[id] = review

	return nil
}

// Edit validates the new values, assigns them to a saved review, and saves it.
// When any step fails the review is left with the values it had before.
func (r *Repository) Edit(ctx context.Context, review *Review, year int, summary string, employeeID int64) error {
	if !review.IsSaved() {
		return ErrNotSaved
	}

	changed, err := r.NewReview(ctx, year, summary, employeeID)
	if err != nil {
		return err
	}

	before := *review
	review.year = changed.year
	review.summary = changed.summary
	review.employeeID = changed.employeeID

	if err := r.Update(ctx, review); err != nil {
		*review = before
		return err
	}

	return nil
}

// Update writes all fields of a saved review to its row.
func (r *Repository) Update(ctx context.Context, review *Review) error {
	if !review.IsSaved() {
		return ErrNotSaved
	}

	if err := r.store.Update(ctx, review.row()); err != nil {
		return fmt.Errorf("failed to update review %d: %w", review.id, err)
	}

	return nil
}

// Delete removes the review's row and forgets it, leaving review as a fresh unsaved review.
// Deleting an unsaved review does nothing.
func (r *Repository) Delete(ctx context.Context, review *Review) error {
	if !review.IsSaved() {
		return nil
	}

	if err := r.store.Delete(ctx, review.id); err != nil {
		return fmt.Errorf("failed to delete review %d: %w", review.id, err)
	}

	delete(r.identity, review.id)
	review.id = 0

	return nil
}

// InstanceFromDB returns the cached review for row.ID, or caches and returns a new one built from row.
// Rows are trusted, so the fields are not validated again.
func (r *Repository) InstanceFromDB(row Row) *Review {
	if review, ok := r.identity[row.ID]; ok {
		return review
	}

	review := &Review{
		id:         row.ID,
		year:       row.Year,
		summary:    row.Summary,
		employeeID: row.EmployeeID,
	}
	r.identity[row.ID] = review

	return review
}

// FindByID returns the review with the id, or nil without an error when there's no such row.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Review, error) {
	row, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get review %d: %w", id, err)
	}

	return r.InstanceFromDB(row), nil
}

// GetAll returns every stored review in the order the store returns them.
func (r *Repository) GetAll(ctx context.Context) ([]*Review, error) {
	rows, err := r.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get all reviews: %w", err)
	}

	return r.hydrate(rows), nil
}

// ForEmployee returns the reviews written for employeeID.
func (r *Repository) ForEmployee(ctx context.Context, employeeID int64) ([]*Review, error) {
	rows, err := r.store.ByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for employee %d: %w", employeeID, err)
	}

	return r.hydrate(rows), nil
}

// Cached returns the review held in the identity map for id.
func (r *Repository) Cached(id int64) (*Review, bool) {
	review, ok := r.identity[id]
	return review, ok
}

// Reset empties the identity map.
func (r *Repository) Reset() {
	clear(r.identity)
}

func (r *Repository) hydrate(rows []Row) []*Review {
	ret := make([]*Review, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, r.InstanceFromDB(row))
	}

	return ret
}
