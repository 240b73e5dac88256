package http

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/auth"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/kanban"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestKanbanHandler_WorkingDay(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "officer@example.com", user.RoleOfficer, nil)
	jane := s.env.SeedEmployee(t, "Jane", &s.lanes.Absent.ID)

	// Moving a checked out employee always opens the wizard
	w := s.do(t, http.MethodPost, "/api/v1/kanban/employees/"+jane.ID+"/attendance-type", token,
		kanban.UpdateAttendanceTypeRequest{NextAttendanceTypeID: s.lanes.Office.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var move kanban.UpdateAttendanceTypeResponse
	decodeData(t, w, &move)
	assert.True(t, move.WizardRequired)

	w = s.do(t, http.MethodPost, "/api/v1/kanban/check-in-out/prepare", token,
		kanban.PrepareCheckInOutRequest{EmployeeID: &jane.ID, NextAttendanceTypeID: &s.lanes.Office.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var wizard kanban.CheckInOutWizard
	decodeData(t, w, &wizard)
	assert.Equal(t, attendance.StateCheckedOut, wizard.AttendanceState)
	assert.NotNil(t, wizard.StartTime)

	w = s.do(t, http.MethodPost, "/api/v1/kanban/check-in-out", token, kanban.CheckInOutRequest{
		EmployeeID:           jane.ID,
		NextAttendanceTypeID: &s.lanes.Office.ID,
		StartTime:            str("2024-03-04T08:00:00Z"),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var checkIn kanban.ActionResult
	decodeData(t, w, &checkIn)
	assert.Equal(t, kanban.ActionCloseWindow, checkIn.Type)
	assert.Equal(t, jane.ID, checkIn.Infos.EmployeeID)
	assert.NotEmpty(t, checkIn.Infos.AttendanceID)

	var raw map[string]any
	decodeData(t, w, &raw)
	assert.Equal(t, map[string]any{
		"type": kanban.ActionCloseWindow,
		"infos": map[string]any{
			"employeeId":   jane.ID,
			"attendanceId": checkIn.Infos.AttendanceID,
		},
	}, raw)

	w = s.do(t, http.MethodGet, "/api/v1/kanban", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var board kanban.BoardResponse
	decodeData(t, w, &board)
	require.Len(t, board.Lanes, 3)
	assert.Empty(t, board.Lanes[0].Employees)
	require.Len(t, board.Lanes[1].Employees, 1)
	assert.Equal(t, "Jane", board.Lanes[1].Employees[0].Name)

	w = s.do(t, http.MethodPost, "/api/v1/kanban/break/start", token, kanban.BreakRequest{EmployeeID: jane.ID, StartTime: str("2024-03-04T12:00:00Z")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Checking out during a break is refused
	w = s.do(t, http.MethodPost, "/api/v1/kanban/check-in-out", token, kanban.CheckInOutRequest{
		EmployeeID:           jane.ID,
		NextAttendanceTypeID: &s.lanes.Absent.ID,
		EndTime:              str("2024-03-04T16:30:00Z"),
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/kanban/employees/"+jane.ID+"/break", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var breakWizard kanban.BreakWizard
	decodeData(t, w, &breakWizard)
	assert.NotNil(t, breakWizard.OnBreak)
	assert.Equal(t, "2024-03-04T12:00:00Z", breakWizard.StartTime)

	w = s.do(t, http.MethodPost, "/api/v1/kanban/break/end", token, kanban.BreakRequest{EmployeeID: jane.ID, EndTime: str("2024-03-04T12:30:00Z")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/kanban/check-in-out", token, kanban.CheckInOutRequest{
		EmployeeID:           jane.ID,
		NextAttendanceTypeID: &s.lanes.Absent.ID,
		EndTime:              str("2024-03-04T16:30:00Z"),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/attendances?employee_id="+jane.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.TotalItems)
	assert.Equal(t, "1-1 of 1", resp.Meta.Showing)

	var records []attendance.AttendanceResponse
	decodeData(t, w, &records)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].WorkedHours)
	assert.True(t, decimal.NewFromInt(8).Equal(*records[0].WorkedHours), records[0].WorkedHours.String())
	assert.True(t, decimal.RequireFromString("0.5").Equal(records[0].BreakTime))

	w = s.do(t, http.MethodGet, "/api/v1/employees/"+jane.ID+"/public", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var public employee.EmployeePublicResponse
	decodeData(t, w, &public)
	assert.Equal(t, attendance.StateCheckedOut, public.AttendanceState)
	require.NotNil(t, public.AttendanceTypeID)
	assert.Equal(t, s.lanes.Absent.ID, *public.AttendanceTypeID)
}

func TestKanbanHandler_ErrorMapping(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "officer@example.com", user.RoleOfficer, nil)
	jane := s.env.SeedEmployee(t, "Jane", &s.lanes.Absent.ID)

	tests := []struct {
		name     string
		path     string
		body     any
		wantCode int
	}{
		{
			name:     "check in to the absent lane",
			path:     "/api/v1/kanban/check-in-out",
			body:     kanban.CheckInOutRequest{EmployeeID: jane.ID, NextAttendanceTypeID: &s.lanes.Absent.ID},
			wantCode: http.StatusConflict,
		},
		{
			name:     "missing employee",
			path:     "/api/v1/kanban/check-in-out",
			body:     kanban.CheckInOutRequest{},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "unknown lane",
			path:     "/api/v1/kanban/employees/" + jane.ID + "/attendance-type",
			body:     kanban.UpdateAttendanceTypeRequest{NextAttendanceTypeID: "missing"},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "malformed employee id",
			path:     "/api/v1/kanban/employees/not-a-uuid/attendance-type",
			body:     kanban.UpdateAttendanceTypeRequest{NextAttendanceTypeID: s.lanes.Home.ID},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "break while checked out",
			path:     "/api/v1/kanban/break/start",
			body:     kanban.BreakRequest{EmployeeID: jane.ID},
			wantCode: http.StatusConflict,
		},
		{
			name:     "prepare with the wrong lane",
			path:     "/api/v1/kanban/check-in-out/prepare",
			body:     kanban.PrepareCheckInOutRequest{EmployeeID: &jane.ID, NextAttendanceTypeID: &s.lanes.Absent.ID},
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, tt.path, token, tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.False(t, decodeResponse(t, w).Success)
		})
	}
}

func TestKanbanHandler_EmployeeRestrictions(t *testing.T) {
	s := newTestServer(t)
	jane := s.env.SeedEmployee(t, "Jane", &s.lanes.Absent.ID)
	john := s.env.SeedEmployee(t, "John", &s.lanes.Absent.ID)
	token := s.login(t, "jane@example.com", user.RoleEmployee, &jane.ID)

	w := s.do(t, http.MethodPost, "/api/v1/kanban/check-in-out", token, kanban.CheckInOutRequest{
		EmployeeID:           john.ID,
		NextAttendanceTypeID: &s.lanes.Office.ID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/kanban/check-in-out", token, kanban.CheckInOutRequest{
		EmployeeID:           jane.ID,
		NextAttendanceTypeID: &s.lanes.Office.ID,
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/attendance-types", token, map[string]any{"name": "Gym"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/attendances/whatever", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/attendance-types", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestKanbanHandler_Stream(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "officer@example.com", user.RoleOfficer, nil)
	jane := s.env.SeedEmployee(t, "Jane", &s.lanes.Absent.ID)

	w := s.do(t, http.MethodGet, "/api/v1/kanban/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Access tokens are not stream tokens
	w = s.do(t, http.MethodGet, "/api/v1/kanban/events?token="+token, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/sse-token", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sseToken auth.SSETokenResponse
	decodeData(t, w, &sseToken)

	server := httptest.NewServer(s.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/kanban/events?token="+sseToken.Token, nil)
	require.NoError(t, err)
	res, err := server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	lines := bufio.NewScanner(res.Body)
	nextEvent := func() (string, string) {
		var event, data string
		for lines.Scan() {
			line := lines.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && event != "":
				return event, data
			}
		}
		return event, data
	}

	event, _ := nextEvent()
	require.Equal(t, "connected", event)
	assert.Equal(t, 1, s.hub.TotalSubscribers())

	w = s.do(t, http.MethodPost, "/api/v1/kanban/check-in-out", token, kanban.CheckInOutRequest{
		EmployeeID:           jane.ID,
		NextAttendanceTypeID: &s.lanes.Home.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	event, data := nextEvent()
	assert.Equal(t, kanban.EventAttendanceChanged, event)
	assert.Contains(t, data, `"employee_id":"`+jane.ID+`"`)
	assert.Contains(t, data, `"attendance_state":"checked_in"`)
	assert.Contains(t, data, `"attendance_type_id":"`+s.lanes.Home.ID+`"`)

	cancel()
	assert.Eventually(t, func() bool { return s.hub.TotalSubscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
