// Package a happily stolen from Working Effectively with Unit Tests.
package a

import (
	"github.com/gaqzi/employee-reviews/internal/reviewing"
)

type BuilderRow struct {
	r reviewing.Row
}

// Row prepares a reviewing.Row that is valid and not saved by default but allows for customization.
func Row() BuilderRow {
	return BuilderRow{}.IsValid()
}

// Build returns the prepared reviewing.Row.
func (b BuilderRow) Build() reviewing.Row {
	return b.r
}

// IsValid prepares a reviewing.Row that passes every field rule, given employee 1 exists.
func (b BuilderRow) IsValid() BuilderRow {
	b.r.Year = 2023
	b.r.Summary = "Good performance"
	b.r.EmployeeID = 1

	return b
}

// IsSaved prepares a reviewing.Row that looks like it came from the store.
func (b BuilderRow) IsSaved() BuilderRow {
	b.r.ID = 1

	return b
}

func (b BuilderRow) WithID(id int64) BuilderRow {
	b.r.ID = id

	return b
}

func (b BuilderRow) WithYear(year int) BuilderRow {
	b.r.Year = year

	return b
}

func (b BuilderRow) WithSummary(summary string) BuilderRow {
	b.r.Summary = summary

	return b
}

func (b BuilderRow) WithEmployeeID(id int64) BuilderRow {
	b.r.EmployeeID = id

	return b
}
