package employee

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceOf(t *testing.T) {
	checkIn := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(8 * time.Hour)
	comment := "client visit"

	t.Run("never checked in", func(t *testing.T) {
		p := PresenceOf(nil)
		assert.Equal(t, attendance.StateCheckedOut, p.State)
		assert.Nil(t, p.LastAttendanceID)
		assert.Nil(t, p.LastCheckIn)
	})

	t.Run("checked in on break", func(t *testing.T) {
		breakStart := checkIn.Add(4 * time.Hour)
		p := PresenceOf(&attendance.Attendance{ID: "a1", CheckIn: checkIn, BreakStartTime: &breakStart})
		assert.Equal(t, attendance.StateCheckedIn, p.State)
		require.NotNil(t, p.OnBreak)
		assert.Equal(t, breakStart, *p.OnBreak)
		assert.Equal(t, "a1", *p.LastAttendanceID)
		assert.Nil(t, p.LastCheckOut)
	})

	t.Run("checked out", func(t *testing.T) {
		p := PresenceOf(&attendance.Attendance{ID: "a2", CheckIn: checkIn, CheckOut: &checkOut, Comment: &comment})
		assert.Equal(t, attendance.StateCheckedOut, p.State)
		assert.Equal(t, checkIn, *p.LastCheckIn)
		assert.Equal(t, checkOut, *p.LastCheckOut)
		assert.Equal(t, comment, *p.LastAttendanceComment)
	})
}

func TestToPublicResponse_Visibility(t *testing.T) {
	checkIn := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	comment := "remote"
	e := Employee{ID: "e1", Name: "Marc Demo"}
	p := PresenceOf(&attendance.Attendance{ID: "a1", CheckIn: checkIn, Comment: &comment})

	restricted := ToPublicResponse(e, p, false)
	assert.Equal(t, attendance.StateCheckedIn, restricted.AttendanceState)
	assert.Equal(t, "a1", *restricted.LastAttendanceID)
	assert.Nil(t, restricted.LastCheckIn)
	assert.Nil(t, restricted.LastCheckOut)
	assert.Nil(t, restricted.LastAttendanceComment)

	full := ToPublicResponse(e, p, true)
	require.NotNil(t, full.LastCheckIn)
	assert.Equal(t, "2024-01-15T08:00:00Z", *full.LastCheckIn)
	assert.Equal(t, comment, *full.LastAttendanceComment)
}

func TestCreateEmployeeRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateEmployeeRequest
		wantErr bool
	}{
		{name: "name only", req: CreateEmployeeRequest{Name: "Marc Demo"}},
		{name: "missing name", req: CreateEmployeeRequest{Name: "  "}, wantErr: true},
		{
			name: "login defaults to employee role",
			req:  CreateEmployeeRequest{Name: "Marc", Login: &LoginRequest{Email: "Marc@Example.com", Password: "secret123"}},
		},
		{
			name:    "short password",
			req:     CreateEmployeeRequest{Name: "Marc", Login: &LoginRequest{Email: "marc@example.com", Password: "short"}},
			wantErr: true,
		},
		{
			name:    "unknown role",
			req:     CreateEmployeeRequest{Name: "Marc", Login: &LoginRequest{Email: "marc@example.com", Password: "secret123", Role: "admin"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	req := CreateEmployeeRequest{Name: "Marc", Login: &LoginRequest{Email: " Marc@Example.com ", Password: "secret123"}}
	require.NoError(t, req.Validate())
	assert.Equal(t, "marc@example.com", req.Login.Email)
	assert.Equal(t, "employee", req.Login.Role)
}
