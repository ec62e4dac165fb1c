package attendance

import "errors"

// Attendance domain errors
var (
	// Administrative edits on an inconsistent day fail loudly; the
	// self-service clock actions never raise these.
	ErrClockInFirst = errors.New("clock in first")

	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)
