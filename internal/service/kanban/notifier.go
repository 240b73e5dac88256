package kanban

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/kanban"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/sse"
)

type boardNotifier struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	broadcaster    sse.Broadcaster
}

// NewNotifier publishes kanban.EventAttendanceChanged events with the
// current lane and state of the employee.
func NewNotifier(employeeRepo employee.EmployeeRepository, attendanceRepo attendance.AttendanceRepository, broadcaster sse.Broadcaster) kanban.Notifier {
	return &boardNotifier{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		broadcaster:    broadcaster,
	}
}

func (n *boardNotifier) AttendanceChanged(ctx context.Context, employeeID, attendanceID string) {
	e, err := n.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		slog.Error("failed to load employee for board event", "employee_id", employeeID, "error", err)
		return
	}

	var latest *attendance.Attendance
	att, err := n.attendanceRepo.GetLatest(ctx, employeeID)
	switch {
	case err == nil:
		latest = &att
	case !errors.Is(err, attendance.ErrAttendanceNotFound):
		slog.Error("failed to load attendance for board event", "employee_id", employeeID, "error", err)
		return
	}

	n.broadcaster.Broadcast(sse.Event{
		Event: kanban.EventAttendanceChanged,
		Data: kanban.AttendanceChanged{
			EmployeeID:       employeeID,
			AttendanceID:     attendanceID,
			AttendanceTypeID: e.AttendanceTypeID,
			AttendanceState:  attendance.StateOf(latest),
			OnBreak:          latest != nil && latest.OnBreak(),
		},
	})
}
