package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance_type"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/auth"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/kanban"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrActorMissing):
		Unauthorized(w, "Unauthorized")

	// Permission errors
	case errors.Is(err, user.ErrOfficerAccessRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrPermissionDenied),
		errors.Is(err, attendance.ErrUnauthorized),
		errors.Is(err, kanban.ErrForbiddenEmployee):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance_type.ErrAttendanceTypeNotFound),
		errors.Is(err, kanban.ErrAttendanceTypeNotOnBoard):
		NotFound(w, "Attendance type not found")

	// Conflicting state
	case errors.Is(err, user.ErrUserEmailExists),
		errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrAlreadyOnBreak),
		errors.Is(err, attendance.ErrNotOnBreak),
		errors.Is(err, attendance.ErrOnBreak),
		errors.Is(err, attendance.ErrCheckOutNotFound),
		errors.Is(err, attendance.ErrOpenAttendanceExists),
		errors.Is(err, attendance.ErrOverlappingAttendance),
		errors.Is(err, attendance_type.ErrDeleteAbsentType),
		errors.Is(err, attendance_type.ErrAttendanceTypeInUse):
		Conflict(w, err.Error())

	// Invalid timestamps and wizard input
	case errors.Is(err, attendance.ErrCheckInRequired),
		errors.Is(err, attendance.ErrCheckOutBeforeCheckIn),
		errors.Is(err, attendance.ErrBreakBeforeCheckIn),
		errors.Is(err, attendance.ErrBreakEndBeforeStart),
		errors.Is(err, attendance.ErrBreakBeforeLastBreak),
		errors.Is(err, attendance.ErrCheckOutBeforeBreakEnd),
		errors.Is(err, attendance.ErrBreakExceedsAttendance),
		errors.Is(err, attendance.ErrCheckInBeforePrevious),
		errors.Is(err, attendance_type.ErrAbsentTypeRequired),
		errors.Is(err, attendance_type.ErrNoAbsentType),
		errors.Is(err, kanban.ErrEmployeeRequired),
		errors.Is(err, kanban.ErrAttendanceTypeRequired),
		errors.Is(err, kanban.ErrMoveToAbsentToCheckOut),
		errors.Is(err, kanban.ErrMoveToPresentToCheckIn):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
