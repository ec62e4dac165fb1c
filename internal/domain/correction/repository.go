package correction

import (
	"context"
)

// RequestRepository defines data access for correction requests. The
// single-pending-per-record invariant is enforced by the service inside the
// same transaction that locks the attendance row, so GetPendingForUpdate must
// be called under that transaction.
type RequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)

	GetByID(ctx context.Context, id string) (Request, error)

	// GetPendingByAttendanceID returns nil when no pending request exists.
	GetPendingByAttendanceID(ctx context.Context, attendanceID string) (*Request, error)

	// GetPendingForUpdate locks the pending row for this record, if any.
	GetPendingForUpdate(ctx context.Context, attendanceID string, employeeID string) (*Request, error)

	// Update rewrites a pending request's proposed fields and reason.
	Update(ctx context.Context, req Request) error

	// UpdateStatus resolves a request.
	UpdateStatus(ctx context.Context, id string, status string, reviewedBy string) error

	ListByEmployee(ctx context.Context, employeeID string, status string) ([]Request, error)

	ListByStatus(ctx context.Context, status string) ([]Request, error)
}
