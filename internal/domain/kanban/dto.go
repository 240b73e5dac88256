package kanban

import (
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance_type"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/validator"
)

// ========================================
// BOARD
// ========================================

type Lane struct {
	AttendanceType attendance_type.AttendanceTypeResponse `json:"attendance_type"`
	Employees      []employee.EmployeePublicResponse      `json:"employees"`
}

type BoardResponse struct {
	Lanes []Lane `json:"lanes"`

	// Unassigned holds employees without a cached attendance type, which only
	// happens while no attendance type exists.
	Unassigned []employee.EmployeePublicResponse `json:"unassigned,omitempty"`
}

// ========================================
// LANE MOVE
// ========================================

type UpdateAttendanceTypeRequest struct {
	EmployeeID           string `json:"-"`
	NextAttendanceTypeID string `json:"next_attendance_type_id"`
}

func (r *UpdateAttendanceTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.NextAttendanceTypeID) {
		errs.Add("next_attendance_type_id", "next_attendance_type_id is required")
	}

	return errs.OrNil()
}

type UpdateAttendanceTypeResponse struct {
	WizardRequired bool `json:"wizard_required"`
}

// ========================================
// CHECK IN / OUT WIZARD
// ========================================

type PrepareCheckInOutRequest struct {
	EmployeeID           *string `json:"employee_id,omitempty"`
	NextAttendanceTypeID *string `json:"next_attendance_type_id,omitempty"`
	ManualMode           bool    `json:"manual_mode"`
}

// CheckInOutWizard holds the defaults shown by the check in / out wizard.
type CheckInOutWizard struct {
	EmployeeID           *string          `json:"employee_id,omitempty"`
	NextAttendanceTypeID *string          `json:"next_attendance_type_id,omitempty"`
	ManualMode           bool             `json:"manual_mode"`
	AttendanceState      attendance.State `json:"attendance_state"`
	LastAttendanceID     *string          `json:"last_attendance_id,omitempty"`
	StartTime            *string          `json:"start_time,omitempty"`
	EndTime              *string          `json:"end_time,omitempty"`
	Comment              *string          `json:"comment,omitempty"`
}

type CheckInOutRequest struct {
	EmployeeID           string  `json:"employee_id"`
	NextAttendanceTypeID *string `json:"next_attendance_type_id,omitempty"`
	StartTime            *string `json:"start_time,omitempty"` // RFC3339, defaults to now
	EndTime              *string `json:"end_time,omitempty"`   // RFC3339, defaults to now
	Comment              *string `json:"comment,omitempty"`

	Start *time.Time `json:"-"`
	End   *time.Time `json:"-"`
}

func (r *CheckInOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", ErrEmployeeRequired.Error())
	}
	if t := validator.OptionalDateTime(&errs, "start_time", r.StartTime); t != nil {
		n := attendance.Normalize(*t)
		r.Start = &n
	}
	if t := validator.OptionalDateTime(&errs, "end_time", r.EndTime); t != nil {
		n := attendance.Normalize(*t)
		r.End = &n
	}
	if r.Comment != nil && len(*r.Comment) > 255 {
		errs.Add("comment", "comment must not exceed 255 characters")
	}

	return errs.OrNil()
}

// ========================================
// BREAK WIZARD
// ========================================

// BreakWizard holds the defaults shown by the break wizard.
type BreakWizard struct {
	EmployeeID       string           `json:"employee_id"`
	AttendanceState  attendance.State `json:"attendance_state"`
	LastAttendanceID *string          `json:"last_attendance_id,omitempty"`
	OnBreak          *string          `json:"on_break,omitempty"`
	StartTime        string           `json:"start_time"`
	EndTime          string           `json:"end_time"`
}

// BreakRequest starts (StartTime) or ends (EndTime) a break.
type BreakRequest struct {
	EmployeeID string  `json:"employee_id"`
	StartTime  *string `json:"start_time,omitempty"`
	EndTime    *string `json:"end_time,omitempty"`

	Start *time.Time `json:"-"`
	End   *time.Time `json:"-"`
}

func (r *BreakRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", ErrEmployeeRequired.Error())
	}
	if t := validator.OptionalDateTime(&errs, "start_time", r.StartTime); t != nil {
		n := attendance.Normalize(*t)
		r.Start = &n
	}
	if t := validator.OptionalDateTime(&errs, "end_time", r.EndTime); t != nil {
		n := attendance.Normalize(*t)
		r.End = &n
	}

	return errs.OrNil()
}
