package kanban

import (
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
)

// ActionCloseWindow tells the client to close the wizard.
const ActionCloseWindow = "close_window"

// EventAttendanceChanged is published on the board stream after every
// attendance mutation.
const EventAttendanceChanged = "attendance.changed"

// Rounding of wizard default times.
const (
	CheckInOutStep = 5 * time.Minute
	BreakStep      = time.Minute
)

// ActionResult is returned by every wizard action.
type ActionResult struct {
	Type  string      `json:"type"`
	Infos ActionInfos `json:"infos"`
}

type ActionInfos struct {
	EmployeeID   string `json:"employeeId"`
	AttendanceID string `json:"attendanceId"`
}

func CloseWindow(employeeID, attendanceID string) ActionResult {
	return ActionResult{
		Type:  ActionCloseWindow,
		Infos: ActionInfos{EmployeeID: employeeID, AttendanceID: attendanceID},
	}
}

// AttendanceChanged is the payload of EventAttendanceChanged.
type AttendanceChanged struct {
	EmployeeID       string           `json:"employee_id"`
	AttendanceID     string           `json:"attendance_id,omitempty"`
	AttendanceTypeID *string          `json:"attendance_type_id,omitempty"`
	AttendanceState  attendance.State `json:"attendance_state"`
	OnBreak          bool             `json:"on_break"`
}

// NeedsWizard decides whether moving an employee to another lane can be
// applied directly. Only a checked in employee moved to another non absent
// lane keeps working and just changes the type of the open attendance.
func NeedsWizard(state attendance.State, currentTypeID *string, nextTypeID string, nextAbsent bool) bool {
	if state != attendance.StateCheckedIn || nextAbsent {
		return true
	}
	return currentTypeID != nil && *currentTypeID == nextTypeID
}
