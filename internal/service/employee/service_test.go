package employee

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var checkIn = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*EmployeeServiceImpl, *servicetest.Env) {
	env := servicetest.NewEnv(t)
	svc := NewEmployeeService(env.Store, env.Employees, env.Attendances, env.Types, env.Users)
	return svc, env
}

func TestEmployeeService_Create_WithLogin(t *testing.T) {
	svc, env := newTestService(t)
	lanes := env.SeedTypes(t)

	resp, err := svc.Create(servicetest.Manager(), employee.CreateEmployeeRequest{
		Name:  "  Jane Doe ",
		Login: &employee.LoginRequest{Email: "Jane@Example.com", Password: "password123"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", resp.Name)
	require.NotNil(t, resp.AttendanceTypeID)
	assert.Equal(t, lanes.Absent.ID, *resp.AttendanceTypeID)
	assert.Equal(t, attendance.StateCheckedOut, resp.AttendanceState)

	u, err := env.Users.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, u.Role)
	require.NotNil(t, u.EmployeeID)
	assert.Equal(t, resp.ID, *u.EmployeeID)
	require.NotNil(t, u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte("password123")))
}

func TestEmployeeService_Create_DuplicateEmailRollsBack(t *testing.T) {
	svc, env := newTestService(t)
	env.SeedTypes(t)

	req := employee.CreateEmployeeRequest{
		Name:  "Jane",
		Login: &employee.LoginRequest{Email: "jane@example.com", Password: "password123"},
	}
	_, err := svc.Create(servicetest.Manager(), req)
	require.NoError(t, err)

	req.Name = "Other Jane"
	_, err = svc.Create(servicetest.Manager(), req)
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	employees, err := env.Employees.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, employees, 1)
}

func TestEmployeeService_Create_RequiresManager(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(servicetest.Officer(), employee.CreateEmployeeRequest{Name: "Jane"})
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)

	_, err = svc.Create(context.Background(), employee.CreateEmployeeRequest{Name: "Jane"})
	assert.ErrorIs(t, err, user.ErrActorMissing)
}

func TestEmployeeService_Update(t *testing.T) {
	svc, env := newTestService(t)
	e := env.SeedEmployee(t, "Jane", nil)

	resp, err := svc.Update(servicetest.Manager(), employee.UpdateEmployeeRequest{ID: e.ID, Name: "Janet"})
	require.NoError(t, err)
	assert.Equal(t, "Janet", resp.Name)

	_, err = svc.Update(servicetest.Manager(), employee.UpdateEmployeeRequest{ID: "missing", Name: "X"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeService_GetPublic_Visibility(t *testing.T) {
	svc, env := newTestService(t)
	lanes := env.SeedTypes(t)
	jane := env.SeedEmployee(t, "Jane", &lanes.Office.ID)
	john := env.SeedEmployee(t, "John", &lanes.Absent.ID)

	comment := "client visit"
	att := env.SeedAttendance(t, attendance.Attendance{
		EmployeeID:       jane.ID,
		CheckIn:          checkIn,
		AttendanceTypeID: &lanes.Office.ID,
		Comment:          &comment,
	})

	self, err := svc.GetPublic(servicetest.EmployeeActor(jane.ID), jane.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedIn, self.AttendanceState)
	require.NotNil(t, self.LastAttendanceID)
	assert.Equal(t, att.ID, *self.LastAttendanceID)
	require.NotNil(t, self.LastCheckIn)
	assert.Equal(t, "2024-03-04T08:00:00Z", *self.LastCheckIn)
	require.NotNil(t, self.LastAttendanceComment)
	assert.Equal(t, comment, *self.LastAttendanceComment)

	other, err := svc.GetPublic(servicetest.EmployeeActor(john.ID), jane.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedIn, other.AttendanceState)
	assert.NotNil(t, other.LastAttendanceID)
	assert.Nil(t, other.LastCheckIn)
	assert.Nil(t, other.LastCheckOut)
	assert.Nil(t, other.LastAttendanceComment)

	officer, err := svc.GetPublic(servicetest.Officer(), jane.ID)
	require.NoError(t, err)
	assert.NotNil(t, officer.LastCheckIn)
}

func TestEmployeeService_List_RestrictsOthers(t *testing.T) {
	svc, env := newTestService(t)
	lanes := env.SeedTypes(t)
	jane := env.SeedEmployee(t, "Jane", &lanes.Absent.ID)
	john := env.SeedEmployee(t, "John", &lanes.Absent.ID)

	out := checkIn.Add(8 * time.Hour)
	env.SeedAttendance(t, attendance.Attendance{EmployeeID: john.ID, CheckIn: checkIn, CheckOut: &out})

	list, err := svc.List(servicetest.EmployeeActor(jane.ID))
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "Jane", list[0].Name)
	assert.Nil(t, list[0].LastAttendanceID)
	assert.Equal(t, "John", list[1].Name)
	assert.NotNil(t, list[1].LastAttendanceID)
	assert.Nil(t, list[1].LastCheckOut)
}

func TestEmployeeService_RecomputeAttendanceType(t *testing.T) {
	svc, env := newTestService(t)
	lanes := env.SeedTypes(t)
	ctx := context.Background()
	e := env.SeedEmployee(t, "Jane", nil)

	require.NoError(t, svc.RecomputeAttendanceType(ctx, e.ID))
	got, err := env.Employees.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AttendanceTypeID)
	assert.Equal(t, lanes.Absent.ID, *got.AttendanceTypeID)

	env.SeedAttendance(t, attendance.Attendance{EmployeeID: e.ID, CheckIn: checkIn, AttendanceTypeID: &lanes.Home.ID})
	require.NoError(t, svc.RecomputeAttendanceType(ctx, e.ID))
	got, err = env.Employees.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AttendanceTypeID)
	assert.Equal(t, lanes.Home.ID, *got.AttendanceTypeID)
	require.NotNil(t, got.AttendanceTypeName)
	assert.Equal(t, "Home", *got.AttendanceTypeName)
}

func TestEmployeeService_RecomputeAll(t *testing.T) {
	svc, env := newTestService(t)
	lanes := env.SeedTypes(t)
	ctx := context.Background()

	in := env.SeedEmployee(t, "In", &lanes.Absent.ID)
	out := env.SeedEmployee(t, "Out", &lanes.Office.ID)
	env.SeedAttendance(t, attendance.Attendance{EmployeeID: in.ID, CheckIn: checkIn, AttendanceTypeID: &lanes.Office.ID})

	require.NoError(t, svc.RecomputeAll(ctx))

	got, err := env.Employees.GetByID(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, lanes.Office.ID, *got.AttendanceTypeID)

	got, err = env.Employees.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, lanes.Absent.ID, *got.AttendanceTypeID)
}
