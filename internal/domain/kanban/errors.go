package kanban

import "errors"

var (
	ErrEmployeeRequired         = errors.New("a valid employee must be selected to check in / out")
	ErrAttendanceTypeRequired   = errors.New("employee must be moved to a valid attendance type")
	ErrMoveToAbsentToCheckOut   = errors.New("employee is already checked in, employee must be moved to the absent attendance type to check out")
	ErrMoveToPresentToCheckIn   = errors.New("employee is already checked out, employee must be moved to a non absent attendance type to check in")
	ErrForbiddenEmployee        = errors.New("only attendance officers can manage the attendance of other employees")
	ErrAttendanceTypeNotOnBoard = errors.New("attendance type does not exist")
)
