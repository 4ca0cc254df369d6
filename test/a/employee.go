package a

import "github.com/gaqzi/employee-reviews/internal/staff"

type BuilderEmployee struct {
	e staff.Employee
}

// Employee prepares a staff.Employee that is valid and not saved.
func Employee() BuilderEmployee {
	return BuilderEmployee{e: staff.Employee{
		Name:     "Amir Ramos",
		JobTitle: "Software Engineer",
	}}
}

func (b BuilderEmployee) Build() staff.Employee {
	return b.e
}

func (b BuilderEmployee) WithID(id int64) BuilderEmployee {
	b.e.ID = id

	return b
}

func (b BuilderEmployee) WithName(name string) BuilderEmployee {
	b.e.Name = name

	return b
}

func (b BuilderEmployee) WithDepartmentID(id int64) BuilderEmployee {
	b.e.DepartmentID = id

	return b
}

type BuilderDepartment struct {
	d staff.Department
}

// Department prepares a staff.Department that is valid and not saved.
func Department() BuilderDepartment {
	return BuilderDepartment{d: staff.Department{
		Name:     "Payroll",
		Location: "Building A",
	}}
}

func (b BuilderDepartment) Build() staff.Department {
	return b.d
}

func (b BuilderDepartment) WithName(name string) BuilderDepartment {
	b.d.Name = name

	return b
}
