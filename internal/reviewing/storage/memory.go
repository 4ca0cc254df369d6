package storage

import (
	"context"
	"maps"
	"slices"

	"github.com/gaqzi/employee-reviews/internal/reviewing"
)

// MemoryStore keeps rows in a map, a nil map means the table doesn't exist.
type MemoryStore struct {
	data      map[int64]reviewing.Row
	currentID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) CreateTable(_ context.Context) error {
	if s.data == nil {
		s.data = make(map[int64]reviewing.Row)
	}

	return nil
}

func (s *MemoryStore) DropTable(_ context.Context) error {
	s.data = nil
	s.currentID = 0

	return nil
}

func (s *MemoryStore) Insert(_ context.Context, row reviewing.Row) (int64, error) {
	if s.data == nil {
		return 0, ErrNoTable
	}

	s.currentID++
	row.ID = s.currentID
	s.data[row.ID] = row

	return row.ID, nil
}

func (s *MemoryStore) Update(_ context.Context, row reviewing.Row) error {
	if s.data == nil {
		return ErrNoTable
	}

	// Like an UPDATE matching no rows, a missing row is left alone.
	if _, ok := s.data[row.ID]; ok {
		s.data[row.ID] = row
	}

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	if s.data == nil {
		return ErrNoTable
	}

	delete(s.data, id)

	return nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (reviewing.Row, error) {
	if s.data == nil {
		return reviewing.Row{}, ErrNoTable
	}

	row, ok := s.data[id]
	if !ok {
		return reviewing.Row{}, &NoReviewError{ID: id}
	}

	return row, nil
}

func (s *MemoryStore) All(_ context.Context) ([]reviewing.Row, error) {
	return s.filter(func(reviewing.Row) bool { return true })
}

func (s *MemoryStore) ByEmployee(_ context.Context, employeeID int64) ([]reviewing.Row, error) {
	return s.filter(func(r reviewing.Row) bool { return r.EmployeeID == employeeID })
}

// filter returns the matching rows in insertion order, which is the order of the
// monotonically incrementing ids.
func (s *MemoryStore) filter(keep func(reviewing.Row) bool) ([]reviewing.Row, error) {
	if s.data == nil {
		return nil, ErrNoTable
	}

	ret := make([]reviewing.Row, 0, len(s.data))
	for _, id := range slices.Sorted(maps.Keys(s.data)) {
		if row := s.data[id]; keep(row) {
			ret = append(ret, row)
		}
	}

	return ret, nil
}
