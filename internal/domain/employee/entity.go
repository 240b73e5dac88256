package employee

import (
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
)

// Employee is a person shown on the attendance board. AttendanceTypeID caches
// the lane the employee is in: the type of the open attendance when checked
// in, the absent type otherwise.
type Employee struct {
	ID               string
	Name             string
	AttendanceTypeID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	AttendanceTypeName *string
}

// Presence is the attendance data derived from the latest attendance record
// of an employee.
type Presence struct {
	State                 attendance.State
	OnBreak               *time.Time
	LastAttendanceID      *string
	LastCheckIn           *time.Time
	LastCheckOut          *time.Time
	LastAttendanceComment *string
}

// PresenceOf derives the presence from the latest attendance, nil when the
// employee never checked in.
func PresenceOf(latest *attendance.Attendance) Presence {
	p := Presence{State: attendance.StateOf(latest)}
	if latest == nil {
		return p
	}

	id := latest.ID
	checkIn := latest.CheckIn
	p.OnBreak = latest.BreakStartTime
	p.LastAttendanceID = &id
	p.LastCheckIn = &checkIn
	p.LastCheckOut = latest.CheckOut
	p.LastAttendanceComment = latest.Comment
	return p
}

// Restricted removes the fields only attendance officers and the employee
// themselves may read.
func (p Presence) Restricted() Presence {
	p.LastCheckIn = nil
	p.LastCheckOut = nil
	p.LastAttendanceComment = nil
	return p
}
