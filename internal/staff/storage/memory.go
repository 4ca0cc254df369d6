package storage

import (
	"context"

	"github.com/gaqzi/employee-reviews/internal/staff"
)

type MemoryStore struct {
	employees   map[int64]staff.Employee
	departments map[int64]staff.Department
	currentID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		employees:   make(map[int64]staff.Employee),
		departments: make(map[int64]staff.Department),
	}
}

func (s *MemoryStore) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := s.employees[id]
	return ok, nil
}

func (s *MemoryStore) GetEmployee(_ context.Context, id int64) (staff.Employee, error) {
	e, ok := s.employees[id]
	if !ok {
		return staff.Employee{}, &NoEmployeeError{ID: id}
	}

	return e, nil
}

func (s *MemoryStore) SaveEmployee(_ context.Context, e staff.Employee) (staff.Employee, error) {
	if e.ID == 0 {
		s.currentID++
		e.ID = s.currentID
	}

	s.employees[e.ID] = e

	return e, nil
}

func (s *MemoryStore) SaveDepartment(_ context.Context, d staff.Department) (staff.Department, error) {
	if d.ID == 0 {
		s.currentID++
		d.ID = s.currentID
	}

	s.departments[d.ID] = d

	return d, nil
}
