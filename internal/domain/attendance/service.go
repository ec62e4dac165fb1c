package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations.
// The clock actions are the self-service flow: they silently ignore illegal
// preconditions so that double submissions stay safe. UpdateDay is the
// administrative flow and fails loudly instead.
type AttendanceService interface {
	// ClockIn records the day's first clock-in. Idempotent: a repeated call
	// keeps the original time.
	ClockIn(ctx context.Context, employeeID string, day string) error

	// ClockOut records a clock-out, overwriting any previous one for the day.
	ClockOut(ctx context.Context, employeeID string, day string) error

	// BreakStart opens the first unused break slot, if a break may start.
	BreakStart(ctx context.Context, employeeID string, day string) error

	// BreakEnd closes the open break and accumulates its minutes.
	BreakEnd(ctx context.Context, employeeID string, day string) error

	// GetOrCreateRecord returns the day's record, creating an empty one when
	// none exists yet.
	GetOrCreateRecord(ctx context.Context, employeeID string, day string) (Attendance, error)

	// GetDay retrieves one record by id, scoped to the employee.
	GetDay(ctx context.Context, employeeID string, id string) (DayResponse, error)

	// UpdateDay is the administrative direct edit: validated fields are
	// written onto the day's record (created when absent) and totals recalced.
	UpdateDay(ctx context.Context, employeeID string, day string, req EditDayRequest) (DayResponse, error)

	// Recalc rewrites the stored numeric totals of a record from its
	// interval fields.
	Recalc(ctx context.Context, id string) error
}
