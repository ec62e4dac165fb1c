package response

import (
	"errors"
	"net/http"

	"github.com/kiki1226/Coachtech-kintai/internal/domain/attendance"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/auth"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/correction"
	"github.com/kiki1226/Coachtech-kintai/internal/domain/user"
	"github.com/kiki1226/Coachtech-kintai/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "Not your attendance record")
	case errors.Is(err, attendance.ErrClockInFirst):
		ValidationError(w, map[string]string{"clock_in": "clock in first"})

	// Correction domain errors
	case errors.Is(err, correction.ErrRequestNotFound):
		NotFound(w, "Correction request not found")
	case errors.Is(err, correction.ErrAlreadyProcessed):
		Conflict(w, "Correction request already processed")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
