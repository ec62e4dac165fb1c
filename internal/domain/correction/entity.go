package correction

import (
	"time"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/attendance"
)

const TypeAttendanceCorrection = "attendance_correction"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Request is a proposed edit to one attendance record. A nil time field
// proposes no change for that field, which also means a correction cannot
// blank out a previously set time. At most one pending request exists per
// record; a resubmission updates the pending row in place.
type Request struct {
	ID           string
	AttendanceID string
	EmployeeID   string
	Type         string
	Status       string
	WorkDate     time.Time

	ClockInAt       *time.Time
	ClockOutAt      *time.Time
	BreakStartedAt  *time.Time
	BreakEndedAt    *time.Time
	Break2StartedAt *time.Time
	Break2EndedAt   *time.Time
	Note            *string

	Reason     string
	ReviewedBy *string
	ReviewedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeName *string
}

// MergeTimes overlays non-nil proposed fields from an edit. Used when a
// second submission lands on an existing pending row: merge, not replace.
func (r *Request) MergeTimes(times attendance.EditTimes, note *string) {
	if times.ClockInAt != nil {
		r.ClockInAt = times.ClockInAt
	}
	if times.ClockOutAt != nil {
		r.ClockOutAt = times.ClockOutAt
	}
	if times.BreakStartedAt != nil {
		r.BreakStartedAt = times.BreakStartedAt
	}
	if times.BreakEndedAt != nil {
		r.BreakEndedAt = times.BreakEndedAt
	}
	if times.Break2StartedAt != nil {
		r.Break2StartedAt = times.Break2StartedAt
	}
	if times.Break2EndedAt != nil {
		r.Break2EndedAt = times.Break2EndedAt
	}
	if note != nil {
		r.Note = note
	}
}

// ApplyTo writes the request's non-nil fields onto the record, the merge
// contract used both for the approval merge and the shadow view.
func (r *Request) ApplyTo(att *attendance.Attendance) {
	if r.ClockInAt != nil {
		att.ClockInAt = r.ClockInAt
	}
	if r.ClockOutAt != nil {
		att.ClockOutAt = r.ClockOutAt
	}
	if r.BreakStartedAt != nil {
		att.BreakStartedAt = r.BreakStartedAt
	}
	if r.BreakEndedAt != nil {
		att.BreakEndedAt = r.BreakEndedAt
	}
	if r.Break2StartedAt != nil {
		att.Break2StartedAt = r.Break2StartedAt
	}
	if r.Break2EndedAt != nil {
		att.Break2EndedAt = r.Break2EndedAt
	}
	if r.Note != nil {
		att.Note = *r.Note
	}
}

// ShadowView returns a display copy of the record with the pending request's
// non-nil values substituted in. The stored record is never mutated.
func ShadowView(att attendance.Attendance, pending *Request) attendance.Attendance {
	display := att
	if pending != nil {
		pending.ApplyTo(&display)
	}
	return display
}
