package attendance_type

import "errors"

var (
	ErrAttendanceTypeNotFound = errors.New("attendance type not found")
	ErrAbsentTypeRequired     = errors.New("there needs to be exactly one attendance type marked as 'absent'; mark another attendance type as 'absent' instead")
	ErrDeleteAbsentType       = errors.New("the attendance type marked as 'absent' cannot be deleted")
	ErrAttendanceTypeInUse    = errors.New("attendance type cannot be deleted because it was already used")
	ErrNoAbsentType           = errors.New("no attendance type is marked as 'absent'")
)
