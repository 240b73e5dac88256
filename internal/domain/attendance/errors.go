package attendance

import "errors"

// Attendance domain errors
var (
	// State machine errors
	ErrAlreadyCheckedIn  = errors.New("employee is already checked in")
	ErrAlreadyCheckedOut = errors.New("employee is already checked out")
	ErrNotCheckedIn      = errors.New("employee is not checked in")
	ErrAlreadyOnBreak    = errors.New("employee is already on break")
	ErrNotOnBreak        = errors.New("employee is not on break")
	ErrOnBreak           = errors.New("employee is on break, end the break before checking out")
	ErrCheckOutNotFound  = errors.New("could not find the corresponding check in, attendances have probably been modified manually")

	// Timestamp ordering errors
	ErrCheckInRequired        = errors.New("check in time is required")
	ErrCheckOutBeforeCheckIn  = errors.New("check out time cannot be earlier than check in time")
	ErrBreakBeforeCheckIn     = errors.New("break start time cannot be earlier than check in time")
	ErrBreakEndBeforeStart    = errors.New("break end time cannot be earlier than break start time")
	ErrBreakBeforeLastBreak   = errors.New("break start time cannot be earlier than the end of the previous break")
	ErrCheckOutBeforeBreakEnd = errors.New("check out time cannot be earlier than the end of the last break")
	ErrBreakExceedsAttendance = errors.New("break time cannot exceed the attendance duration")
	ErrCheckInBeforePrevious  = errors.New("cannot check in earlier than the previous attendance started")

	// Timeline errors
	ErrOpenAttendanceExists  = errors.New("employee already has an attendance without check out")
	ErrOverlappingAttendance = errors.New("attendance overlaps another attendance of the employee")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)
