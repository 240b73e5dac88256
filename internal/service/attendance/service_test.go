package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	employeesvc "github.com/cmlabs-hris/hr-attendance-kanban/internal/service/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (attendance.AttendanceService, *servicetest.Env, servicetest.Lanes) {
	env := servicetest.NewEnv(t)
	lanes := env.SeedTypes(t)
	employees := employeesvc.NewEmployeeService(env.Store, env.Employees, env.Attendances, env.Types, env.Users)
	svc := NewAttendanceService(env.Store, env.Attendances, env.Employees, env.Types, employees, env.Notifier)
	return svc, env, lanes
}

func str(s string) *string { return &s }

func cachedType(t *testing.T, env *servicetest.Env, employeeID string) string {
	t.Helper()
	e, err := env.Employees.GetByID(context.Background(), employeeID)
	require.NoError(t, err)
	require.NotNil(t, e.AttendanceTypeID)
	return *e.AttendanceTypeID
}

func TestAttendanceService_Create_OpenRecordUpdatesCache(t *testing.T) {
	svc, env, lanes := newTestService(t)
	e := env.SeedEmployee(t, "Jane", &lanes.Absent.ID)

	resp, err := svc.Create(servicetest.Officer(), attendance.CreateAttendanceRequest{
		EmployeeID:       e.ID,
		CheckIn:          "2024-03-04T08:00:00Z",
		AttendanceTypeID: &lanes.Office.ID,
	})
	require.NoError(t, err)

	assert.Nil(t, resp.CheckOut)
	assert.Nil(t, resp.WorkedHours)
	assert.Equal(t, "Jane", resp.EmployeeName)
	require.NotNil(t, resp.AttendanceTypeName)
	assert.Equal(t, "Office", *resp.AttendanceTypeName)
	assert.Equal(t, lanes.Office.ID, cachedType(t, env, e.ID))

	assert.Equal(t, []servicetest.Change{{EmployeeID: e.ID, AttendanceID: resp.ID}}, env.Notifier.Changes())
}

func TestAttendanceService_Create_ClosedRecordWorkedHours(t *testing.T) {
	svc, env, lanes := newTestService(t)
	e := env.SeedEmployee(t, "Jane", &lanes.Absent.ID)

	resp, err := svc.Create(servicetest.Officer(), attendance.CreateAttendanceRequest{
		EmployeeID: e.ID,
		CheckIn:    "2024-03-04T08:00:00Z",
		CheckOut:   str("2024-03-04T16:30:00Z"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.WorkedHours)
	assert.True(t, decimal.RequireFromString("8.5").Equal(*resp.WorkedHours))
	assert.Equal(t, lanes.Absent.ID, cachedType(t, env, e.ID))
}

func TestAttendanceService_Create_Invariants(t *testing.T) {
	svc, env, lanes := newTestService(t)
	ctx := servicetest.Officer()
	e := env.SeedEmployee(t, "Jane", &lanes.Absent.ID)

	_, err := svc.Create(ctx, attendance.CreateAttendanceRequest{
		EmployeeID: e.ID, CheckIn: "2024-03-04T08:00:00Z", CheckOut: str("2024-03-04T12:00:00Z"),
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  attendance.CreateAttendanceRequest
		want error
	}{
		{
			name: "check out before check in",
			req:  attendance.CreateAttendanceRequest{EmployeeID: e.ID, CheckIn: "2024-03-05T10:00:00Z", CheckOut: str("2024-03-05T09:00:00Z")},
			want: attendance.ErrCheckOutBeforeCheckIn,
		},
		{
			name: "overlapping",
			req:  attendance.CreateAttendanceRequest{EmployeeID: e.ID, CheckIn: "2024-03-04T11:00:00Z", CheckOut: str("2024-03-04T13:00:00Z")},
			want: attendance.ErrOverlappingAttendance,
		},
		{
			name: "same check in",
			req:  attendance.CreateAttendanceRequest{EmployeeID: e.ID, CheckIn: "2024-03-04T08:00:00Z", CheckOut: str("2024-03-04T08:00:00Z")},
			want: attendance.ErrOverlappingAttendance,
		},
		{
			name: "unknown employee",
			req:  attendance.CreateAttendanceRequest{EmployeeID: "missing", CheckIn: "2024-03-06T08:00:00Z"},
			want: employee.ErrEmployeeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = svc.Create(ctx, attendance.CreateAttendanceRequest{EmployeeID: e.ID, CheckIn: "2024-03-05T08:00:00Z"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, attendance.CreateAttendanceRequest{EmployeeID: e.ID, CheckIn: "2024-03-06T08:00:00Z"})
	assert.ErrorIs(t, err, attendance.ErrOpenAttendanceExists)
}

func TestAttendanceService_Update_ReopenAndClose(t *testing.T) {
	svc, env, lanes := newTestService(t)
	ctx := servicetest.Officer()
	e := env.SeedEmployee(t, "Jane", &lanes.Absent.ID)

	created, err := svc.Create(ctx, attendance.CreateAttendanceRequest{
		EmployeeID:       e.ID,
		CheckIn:          "2024-03-04T08:00:00Z",
		CheckOut:         str("2024-03-04T12:00:00Z"),
		AttendanceTypeID: &lanes.Home.ID,
	})
	require.NoError(t, err)

	reopened, err := svc.Update(ctx, attendance.UpdateAttendanceRequest{ID: created.ID, ClearCheckOut: true})
	require.NoError(t, err)
	assert.Nil(t, reopened.CheckOut)
	assert.Nil(t, reopened.WorkedHours)
	assert.Equal(t, lanes.Home.ID, cachedType(t, env, e.ID))

	closed, err := svc.Update(ctx, attendance.UpdateAttendanceRequest{ID: created.ID, CheckOut: str("2024-03-04T10:15:00Z"), Comment: str("forgot")})
	require.NoError(t, err)
	require.NotNil(t, closed.WorkedHours)
	assert.True(t, decimal.RequireFromString("2.25").Equal(*closed.WorkedHours))
	require.NotNil(t, closed.Comment)
	assert.Equal(t, "forgot", *closed.Comment)
	assert.Equal(t, lanes.Absent.ID, cachedType(t, env, e.ID))

	_, err = svc.Update(ctx, attendance.UpdateAttendanceRequest{ID: created.ID, CheckIn: str("2024-03-04T11:00:00Z")})
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)
}

func TestAttendanceService_Delete_OpenRecordReturnsToAbsent(t *testing.T) {
	svc, env, lanes := newTestService(t)
	ctx := servicetest.Officer()
	e := env.SeedEmployee(t, "Jane", &lanes.Absent.ID)

	created, err := svc.Create(ctx, attendance.CreateAttendanceRequest{
		EmployeeID: e.ID, CheckIn: "2024-03-04T08:00:00Z", AttendanceTypeID: &lanes.Office.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, lanes.Office.ID, cachedType(t, env, e.ID))

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Equal(t, lanes.Absent.ID, cachedType(t, env, e.ID))

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), attendance.ErrAttendanceNotFound)
}

func TestAttendanceService_EmployeeAccess(t *testing.T) {
	svc, env, lanes := newTestService(t)
	jane := env.SeedEmployee(t, "Jane", &lanes.Absent.ID)
	john := env.SeedEmployee(t, "John", &lanes.Absent.ID)

	janeAtt := env.SeedAttendance(t, attendance.Attendance{EmployeeID: jane.ID, CheckIn: time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)})
	johnAtt := env.SeedAttendance(t, attendance.Attendance{EmployeeID: john.ID, CheckIn: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)})

	ctx := servicetest.EmployeeActor(jane.ID)

	_, err := svc.Create(ctx, attendance.CreateAttendanceRequest{EmployeeID: jane.ID, CheckIn: "2024-03-05T08:00:00Z"})
	assert.ErrorIs(t, err, user.ErrOfficerAccessRequired)

	got, err := svc.Get(ctx, janeAtt.ID)
	require.NoError(t, err)
	assert.Equal(t, janeAtt.ID, got.ID)

	_, err = svc.Get(ctx, johnAtt.ID)
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)

	list, err := svc.List(ctx, attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.Equal(t, "1-1 of 1", list.Showing)
	require.Len(t, list.Attendances, 1)
	assert.Equal(t, janeAtt.ID, list.Attendances[0].ID)

	_, err = svc.List(ctx, attendance.AttendanceFilter{EmployeeID: &john.ID})
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}

func TestAttendanceService_List_Filters(t *testing.T) {
	svc, env, lanes := newTestService(t)
	e := env.SeedEmployee(t, "Jane", &lanes.Absent.ID)

	day := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		in := day.AddDate(0, 0, i)
		out := in.Add(8 * time.Hour)
		env.SeedAttendance(t, attendance.Attendance{EmployeeID: e.ID, CheckIn: in, CheckOut: &out})
	}
	env.SeedAttendance(t, attendance.Attendance{EmployeeID: e.ID, CheckIn: day.AddDate(0, 0, 3)})

	ctx := servicetest.Officer()

	all, err := svc.List(ctx, attendance.AttendanceFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.TotalCount)
	assert.Equal(t, 2, all.TotalPages)
	assert.Equal(t, "1-2 of 4", all.Showing)
	require.Len(t, all.Attendances, 2)
	assert.Nil(t, all.Attendances[0].CheckOut, "newest first")

	open := true
	openOnly, err := svc.List(ctx, attendance.AttendanceFilter{Open: &open})
	require.NoError(t, err)
	assert.Equal(t, int64(1), openOnly.TotalCount)

	start, end := "2024-03-05", "2024-03-05"
	oneDay, err := svc.List(ctx, attendance.AttendanceFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, oneDay.Attendances, 1)
	assert.Equal(t, "2024-03-05T08:00:00Z", oneDay.Attendances[0].CheckIn)

	empty, err := svc.List(ctx, attendance.AttendanceFilter{EmployeeID: str("nobody")})
	require.NoError(t, err)
	assert.Equal(t, "0 of 0", empty.Showing)
}
