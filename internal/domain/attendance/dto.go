package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// CreateAttendanceRequest lets officers record an attendance manually.
type CreateAttendanceRequest struct {
	EmployeeID       string  `json:"employee_id"`
	CheckIn          string  `json:"check_in"`            // RFC3339
	CheckOut         *string `json:"check_out,omitempty"` // RFC3339, empty keeps it open
	AttendanceTypeID *string `json:"attendance_type_id,omitempty"`
	Comment          *string `json:"comment,omitempty"`

	CheckInTime  time.Time  `json:"-"`
	CheckOutTime *time.Time `json:"-"`
}

func (r *CreateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	if validator.IsEmpty(r.CheckIn) {
		errs.Add("check_in", "check_in is required")
	} else if t, ok := validator.IsValidDateTime(r.CheckIn); !ok {
		errs.Add("check_in", "check_in must be an ISO8601 timestamp, e.g. 2024-01-15T10:30:00Z")
	} else {
		r.CheckInTime = Normalize(t)
	}

	if t := validator.OptionalDateTime(&errs, "check_out", r.CheckOut); t != nil {
		n := Normalize(*t)
		r.CheckOutTime = &n
	}

	if r.Comment != nil && len(*r.Comment) > 255 {
		errs.Add("comment", "comment must not exceed 255 characters")
	}

	return errs.OrNil()
}

// UpdateAttendanceRequest lets officers fix attendance data, e.g. a
// forgotten check out. ClearCheckOut reopens the attendance.
type UpdateAttendanceRequest struct {
	ID               string  `json:"-"`
	CheckIn          *string `json:"check_in,omitempty"`
	CheckOut         *string `json:"check_out,omitempty"`
	ClearCheckOut    bool    `json:"clear_check_out,omitempty"`
	AttendanceTypeID *string `json:"attendance_type_id,omitempty"`
	Comment          *string `json:"comment,omitempty"`

	CheckInTime  *time.Time `json:"-"`
	CheckOutTime *time.Time `json:"-"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}

	if t := validator.OptionalDateTime(&errs, "check_in", r.CheckIn); t != nil {
		n := Normalize(*t)
		r.CheckInTime = &n
	}
	if t := validator.OptionalDateTime(&errs, "check_out", r.CheckOut); t != nil {
		n := Normalize(*t)
		r.CheckOutTime = &n
	}

	if r.ClearCheckOut && r.CheckOutTime != nil {
		errs.Add("clear_check_out", "clear_check_out cannot be combined with check_out")
	}

	if r.Comment != nil && len(*r.Comment) > 255 {
		errs.Add("comment", "comment must not exceed 255 characters")
	}

	return errs.OrNil()
}

type AttendanceResponse struct {
	ID                 string           `json:"id"`
	EmployeeID         string           `json:"employee_id"`
	EmployeeName       string           `json:"employee_name"`
	CheckIn            string           `json:"check_in"`
	CheckOut           *string          `json:"check_out,omitempty"`
	AttendanceTypeID   *string          `json:"attendance_type_id,omitempty"`
	AttendanceTypeName *string          `json:"attendance_type_name,omitempty"`
	Comment            *string          `json:"comment,omitempty"`
	OnBreak            *string          `json:"on_break,omitempty"`
	BreakTime          decimal.Decimal  `json:"break_time"`
	WorkedHours        *decimal.Decimal `json:"worked_hours,omitempty"`
	CreatedAt          string           `json:"created_at"`
	UpdatedAt          string           `json:"updated_at"`
}

// TimePtrToString formats an optional timestamp as RFC3339.
func TimePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

// ToResponse converts an Attendance entity to AttendanceResponse
func ToResponse(att Attendance) AttendanceResponse {
	var employeeName string
	if att.EmployeeName != nil {
		employeeName = *att.EmployeeName
	}

	return AttendanceResponse{
		ID:                 att.ID,
		EmployeeID:         att.EmployeeID,
		EmployeeName:       employeeName,
		CheckIn:            att.CheckIn.UTC().Format(time.RFC3339),
		CheckOut:           TimePtrToString(att.CheckOut),
		AttendanceTypeID:   att.AttendanceTypeID,
		AttendanceTypeName: att.AttendanceTypeName,
		Comment:            att.Comment,
		OnBreak:            TimePtrToString(att.BreakStartTime),
		BreakTime:          att.BreakHours(),
		WorkedHours:        att.WorkedHours(),
		CreatedAt:          att.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          att.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID *string `json:"employee_id,omitempty"`
	Open       *bool   `json:"open,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD, on check_in
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD, on check_in

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // check_in, check_out
	SortOrder string `json:"sort_order"` // asc, desc

	StartAt *time.Time `json:"-"`
	EndAt   *time.Time `json:"-"` // exclusive, day after EndDate
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if d, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		} else {
			f.StartAt = &d
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if d, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		} else {
			next := d.AddDate(0, 0, 1)
			f.EndAt = &next
		}
	}

	// Sort validation
	if f.SortBy != "" {
		validSortFields := []string{"check_in", "check_out"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs.Add("sort_by", "sort_by must be one of: check_in, check_out")
		}
	} else {
		f.SortBy = "check_in" // Default sort
	}

	if f.SortOrder != "" {
		f.SortOrder = strings.ToLower(f.SortOrder)
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(f.SortOrder, validSortOrders) {
			errs.Add("sort_order", "sort_order must be one of: asc, desc")
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	return errs.OrNil()
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}
