package kanban

import "context"

// KanbanService drives the attendance board. Every operation acting on an
// employee first checks that the actor may manage that employee.
type KanbanService interface {
	// Board returns one lane per attendance type, empty lanes included
	Board(ctx context.Context) (BoardResponse, error)

	// UpdateAttendanceType moves an employee to another lane. It reports
	// whether the check in / out wizard has to finish the move.
	UpdateAttendanceType(ctx context.Context, req UpdateAttendanceTypeRequest) (UpdateAttendanceTypeResponse, error)

	PrepareCheckInOut(ctx context.Context, req PrepareCheckInOutRequest) (CheckInOutWizard, error)
	CheckInOut(ctx context.Context, req CheckInOutRequest) (ActionResult, error)

	PrepareBreak(ctx context.Context, employeeID string) (BreakWizard, error)
	StartBreak(ctx context.Context, req BreakRequest) (ActionResult, error)
	EndBreak(ctx context.Context, req BreakRequest) (ActionResult, error)
}

// Notifier announces attendance changes on the board stream. It is called
// after the change committed and never fails the operation.
type Notifier interface {
	AttendanceChanged(ctx context.Context, employeeID, attendanceID string)
}
