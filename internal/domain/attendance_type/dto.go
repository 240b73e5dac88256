package attendance_type

import (
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/validator"
)

type CreateAttendanceTypeRequest struct {
	Name     string `json:"name"`
	Sequence int    `json:"sequence"`
	Absent   bool   `json:"absent"`
}

func (r *CreateAttendanceTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	return errs.OrNil()
}

type UpdateAttendanceTypeRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"name,omitempty"`
	Sequence *int    `json:"sequence,omitempty"`
	Absent   *bool   `json:"absent,omitempty"`
}

func (r *UpdateAttendanceTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		} else if len(*r.Name) > 255 {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}

	return errs.OrNil()
}

type AttendanceTypeResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Sequence  int    `json:"sequence"`
	Absent    bool   `json:"absent"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func ToResponse(t AttendanceType) AttendanceTypeResponse {
	return AttendanceTypeResponse{
		ID:        t.ID,
		Name:      t.Name,
		Sequence:  t.Sequence,
		Absent:    t.Absent,
		CreatedAt: t.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: t.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
