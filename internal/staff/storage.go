package staff

import "context"

type Storage interface {
	Exists(ctx context.Context, id int64) (bool, error)

	// GetEmployee finds the employee or returns NoEmployeeError.
	GetEmployee(ctx context.Context, id int64) (Employee, error)

	// SaveEmployee inserts the employee when the ID is 0 and updates it otherwise.
	SaveEmployee(ctx context.Context, e Employee) (Employee, error)

	// SaveDepartment inserts the department when the ID is 0 and updates it otherwise.
	SaveDepartment(ctx context.Context, d Department) (Department, error)
}
