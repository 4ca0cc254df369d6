package storage

import "fmt"

type NoEmployeeError struct {
	ID int64
}

func (e *NoEmployeeError) Error() string {
	return fmt.Sprintf("employee not found by id: %d", e.ID)
}
