package correction

import (
	"context"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/attendance"
)

// SubmitResult reports the outcome of a correction submission. NoChange is
// not an error: the caller reports "no changes" and nothing was written.
type SubmitResult struct {
	NoChange bool
	Request  *Request
}

// RequestResponse is the API rendering of a correction request.
type RequestResponse struct {
	ID           string  `json:"id"`
	AttendanceID string  `json:"attendance_id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	WorkDate     string  `json:"work_date"`
	ClockIn      *string `json:"clock_in,omitempty"`
	ClockOut     *string `json:"clock_out,omitempty"`
	Break1Start  *string `json:"break1_start,omitempty"`
	Break1End    *string `json:"break1_end,omitempty"`
	Break2Start  *string `json:"break2_start,omitempty"`
	Break2End    *string `json:"break2_end,omitempty"`
	Note         *string `json:"note,omitempty"`
	Reason       string  `json:"reason"`
	CreatedAt    string  `json:"created_at"`
}

// Service defines the correction workflow: submission with the
// single-pending invariant, the display shadow view, and resolution.
type Service interface {
	// Submit validates the edit and, unless nothing changed, applies it to
	// the record and upserts the single pending request for it, all in one
	// transaction.
	Submit(ctx context.Context, employeeID string, attendanceID string, req attendance.EditDayRequest) (SubmitResult, error)

	// ShadowView returns the record overlaid with its pending request, plus
	// the request itself when one exists.
	ShadowView(ctx context.Context, employeeID string, attendanceID string) (attendance.Attendance, *Request, error)

	// Approve merges the proposed fields into the record and resolves the
	// request.
	Approve(ctx context.Context, reviewerID string, requestID string) error

	// Reject resolves the request leaving the record untouched.
	Reject(ctx context.Context, reviewerID string, requestID string) error

	ListByEmployee(ctx context.Context, employeeID string, status string) ([]Request, error)

	ListByStatus(ctx context.Context, status string) ([]Request, error)
}
