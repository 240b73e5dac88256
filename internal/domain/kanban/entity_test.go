package kanban

import (
	"testing"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

func TestNeedsWizard(t *testing.T) {
	office := "office"
	tests := []struct {
		name       string
		state      attendance.State
		current    *string
		next       string
		nextAbsent bool
		want       bool
	}{
		{name: "checked out moving to office", state: attendance.StateCheckedOut, next: "office", want: true},
		{name: "checked in moving to absent", state: attendance.StateCheckedIn, current: &office, next: "absent", nextAbsent: true, want: true},
		{name: "checked in moving to home", state: attendance.StateCheckedIn, current: &office, next: "home", want: false},
		{name: "checked in dropped on same lane", state: attendance.StateCheckedIn, current: &office, next: "office", want: true},
		{name: "checked in without type", state: attendance.StateCheckedIn, next: "home", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsWizard(tt.state, tt.current, tt.next, tt.nextAbsent))
		})
	}
}

func TestCloseWindow(t *testing.T) {
	r := CloseWindow("e1", "a1")
	assert.Equal(t, "close_window", r.Type)
	assert.Equal(t, "e1", r.Infos.EmployeeID)
	assert.Equal(t, "a1", r.Infos.AttendanceID)
}

func TestCheckInOutRequest_Validate(t *testing.T) {
	bad := "yesterday"
	req := CheckInOutRequest{EmployeeID: "", StartTime: &bad}
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "employee_id")
	assert.Contains(t, err.Error(), "start_time")

	start := "2024-01-15T08:00:30.500Z"
	req = CheckInOutRequest{EmployeeID: "e1", StartTime: &start}
	assert.NoError(t, req.Validate())
	if assert.NotNil(t, req.Start) {
		assert.Equal(t, "2024-01-15T08:00:30Z", req.Start.Format("2006-01-02T15:04:05Z07:00"))
	}
	assert.Nil(t, req.End)
}
