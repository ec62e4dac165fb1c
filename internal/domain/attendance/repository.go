package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records.
// The ForUpdate variants take a row-level lock and must run inside a
// transaction; mutating flows lock the (employee, work date) row for the
// whole read-modify-write.
type AttendanceRepository interface {
	// Create inserts a new record and returns it with generated fields set.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByID retrieves a record with its break entries.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when no record exists for the day.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*Attendance, error)

	// GetOrCreateForUpdate locates the (employee, work date) row, creating it
	// when absent, and locks it. Concurrent callers for the same key serialize
	// here.
	GetOrCreateForUpdate(ctx context.Context, employeeID string, workDate time.Time) (Attendance, error)

	// Update persists every mutable column of the record.
	Update(ctx context.Context, att Attendance) error

	// ListByEmployeeBetween returns the employee's records with from <= work
	// date <= to, oldest first.
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)

	// ListByDate returns every employee's record for one day.
	ListByDate(ctx context.Context, workDate time.Time) ([]Attendance, error)

	// ListBreaks loads the break-entry rows for a record.
	ListBreaks(ctx context.Context, attendanceID string) ([]BreakEntry, error)
}
