package employee

import (
	"strings"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/validator"
)

// LoginRequest creates a user account linked to the new employee.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type CreateEmployeeRequest struct {
	Name  string        `json:"name"`
	Login *LoginRequest `json:"login,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	if r.Login != nil {
		r.Login.Email = strings.ToLower(strings.TrimSpace(r.Login.Email))
		if !validator.IsValidEmail(r.Login.Email) {
			errs.Add("login.email", "invalid email format")
		}
		if len(r.Login.Password) < 8 {
			errs.Add("login.password", "password must be at least 8 characters")
		}
		if r.Login.Role == "" {
			r.Login.Role = string(user.RoleEmployee)
		} else if !validator.IsInSlice(r.Login.Role, user.ValidRoles) {
			errs.Add("login.role", "role must be one of: employee, officer, manager")
		}
	}

	return errs.OrNil()
}

type UpdateEmployeeRequest struct {
	ID   string `json:"-"`
	Name string `json:"name"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	return errs.OrNil()
}

type EmployeeResponse struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	AttendanceTypeID      *string          `json:"attendance_type_id,omitempty"`
	AttendanceTypeName    *string          `json:"attendance_type_name,omitempty"`
	AttendanceState       attendance.State `json:"attendance_state"`
	OnBreak               *string          `json:"on_break,omitempty"`
	LastAttendanceID      *string          `json:"last_attendance_id,omitempty"`
	LastCheckIn           *string          `json:"last_check_in,omitempty"`
	LastCheckOut          *string          `json:"last_check_out,omitempty"`
	LastAttendanceComment *string          `json:"last_attendance_comment,omitempty"`
	CreatedAt             string           `json:"created_at"`
	UpdatedAt             string           `json:"updated_at"`
}

// EmployeePublicResponse is the projection of an employee every user may read.
type EmployeePublicResponse struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	AttendanceTypeID      *string          `json:"attendance_type_id,omitempty"`
	AttendanceState       attendance.State `json:"attendance_state"`
	OnBreak               *string          `json:"on_break,omitempty"`
	LastAttendanceID      *string          `json:"last_attendance_id,omitempty"`
	LastCheckIn           *string          `json:"last_check_in,omitempty"`
	LastCheckOut          *string          `json:"last_check_out,omitempty"`
	LastAttendanceComment *string          `json:"last_attendance_comment,omitempty"`
}

func ToResponse(e Employee, p Presence) EmployeeResponse {
	return EmployeeResponse{
		ID:                    e.ID,
		Name:                  e.Name,
		AttendanceTypeID:      e.AttendanceTypeID,
		AttendanceTypeName:    e.AttendanceTypeName,
		AttendanceState:       p.State,
		OnBreak:               attendance.TimePtrToString(p.OnBreak),
		LastAttendanceID:      p.LastAttendanceID,
		LastCheckIn:           attendance.TimePtrToString(p.LastCheckIn),
		LastCheckOut:          attendance.TimePtrToString(p.LastCheckOut),
		LastAttendanceComment: p.LastAttendanceComment,
		CreatedAt:             e.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:             e.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ToPublicResponse builds the public projection. Restricted fields are only
// kept when full is true.
func ToPublicResponse(e Employee, p Presence, full bool) EmployeePublicResponse {
	if !full {
		p = p.Restricted()
	}
	return EmployeePublicResponse{
		ID:                    e.ID,
		Name:                  e.Name,
		AttendanceTypeID:      e.AttendanceTypeID,
		AttendanceState:       p.State,
		OnBreak:               attendance.TimePtrToString(p.OnBreak),
		LastAttendanceID:      p.LastAttendanceID,
		LastCheckIn:           attendance.TimePtrToString(p.LastCheckIn),
		LastCheckOut:          attendance.TimePtrToString(p.LastCheckOut),
		LastAttendanceComment: p.LastAttendanceComment,
	}
}
