// Package repotest holds the behaviour every repository implementation must
// share. Each backend runs Run against its own database.
package repotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance_type"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/auth"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/database"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Repos are the repositories of one empty database.
type Repos struct {
	Tx            database.Transactor
	Users         user.UserRepository
	Employees     employee.EmployeeRepository
	Attendances   attendance.AttendanceRepository
	Types         attendance_type.AttendanceTypeRepository
	RefreshTokens auth.RefreshTokenRepository
}

// Run executes the shared repository tests. open must return repositories
// on an empty database for every call.
func Run(t *testing.T, open func(t *testing.T) Repos) {
	t.Run("AttendanceTypes", func(t *testing.T) { testAttendanceTypes(t, open(t)) })
	t.Run("Employees", func(t *testing.T) { testEmployees(t, open(t)) })
	t.Run("Attendances", func(t *testing.T) { testAttendances(t, open(t)) })
	t.Run("AttendanceList", func(t *testing.T) { testAttendanceList(t, open(t)) })
	t.Run("Users", func(t *testing.T) { testUsers(t, open(t)) })
	t.Run("RefreshTokens", func(t *testing.T) { testRefreshTokens(t, open(t)) })
	t.Run("Transactions", func(t *testing.T) { testTransactions(t, open(t)) })
}

var day = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func seedTypes(t *testing.T, r Repos) (absent, office attendance_type.AttendanceType) {
	t.Helper()
	ctx := context.Background()

	absent, err := r.Types.Create(ctx, attendance_type.AttendanceType{Name: "Absent", Sequence: 0, Absent: true})
	require.NoError(t, err)
	office, err = r.Types.Create(ctx, attendance_type.AttendanceType{Name: "Office", Sequence: 1})
	require.NoError(t, err)
	return absent, office
}

func seedAttendance(t *testing.T, r Repos, att attendance.Attendance) attendance.Attendance {
	t.Helper()
	att.Recompute()
	created, err := r.Attendances.Create(context.Background(), att)
	require.NoError(t, err)
	return created
}

func testAttendanceTypes(t *testing.T, r Repos) {
	ctx := context.Background()

	_, err := r.Types.GetAbsent(ctx)
	assert.ErrorIs(t, err, attendance_type.ErrNoAbsentType)

	home, err := r.Types.Create(ctx, attendance_type.AttendanceType{Name: "Home", Sequence: 2})
	require.NoError(t, err)
	absent, office := seedTypes(t, r)

	types, err := r.Types.List(ctx)
	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.Equal(t, []string{absent.ID, office.ID, home.ID}, []string{types[0].ID, types[1].ID, types[2].ID})

	count, err := r.Types.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	home.Absent = true
	home.Name = "Remote"
	require.NoError(t, r.Types.Update(ctx, home))
	require.NoError(t, r.Types.ClearAbsentExcept(ctx, home.ID))

	got, err := r.Types.GetAbsent(ctx)
	require.NoError(t, err)
	assert.Equal(t, home.ID, got.ID)
	assert.Equal(t, "Remote", got.Name)

	got, err = r.Types.GetByID(ctx, absent.ID)
	require.NoError(t, err)
	assert.False(t, got.Absent)

	require.NoError(t, r.Types.Delete(ctx, office.ID))
	_, err = r.Types.GetByID(ctx, office.ID)
	assert.ErrorIs(t, err, attendance_type.ErrAttendanceTypeNotFound)
	assert.ErrorIs(t, r.Types.Delete(ctx, office.ID), attendance_type.ErrAttendanceTypeNotFound)
}

func testEmployees(t *testing.T, r Repos) {
	ctx := context.Background()
	absent, office := seedTypes(t, r)

	zoe, err := r.Employees.Create(ctx, employee.Employee{Name: "Zoe"})
	require.NoError(t, err)
	adam, err := r.Employees.Create(ctx, employee.Employee{Name: "Adam", AttendanceTypeID: &office.ID})
	require.NoError(t, err)

	employees, err := r.Employees.List(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Adam", employees[0].Name)
	require.NotNil(t, employees[0].AttendanceTypeName)
	assert.Equal(t, "Office", *employees[0].AttendanceTypeName)
	assert.Nil(t, employees[1].AttendanceTypeID)

	zoe.Name = "Zoey"
	require.NoError(t, r.Employees.Update(ctx, zoe))
	require.NoError(t, r.Employees.SetAttendanceType(ctx, zoe.ID, &office.ID))
	got, err := r.Employees.GetByID(ctx, zoe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zoey", got.Name)
	assert.Equal(t, office.ID, *got.AttendanceTypeID)

	// Moving to the lane the employee is already in still succeeds
	require.NoError(t, r.Employees.SetAttendanceType(ctx, zoe.ID, &office.ID))

	unknown := utils.NewID()
	assert.ErrorIs(t, r.Employees.SetAttendanceType(ctx, unknown, nil), employee.ErrEmployeeNotFound)
	_, err = r.Employees.GetByID(ctx, unknown)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	// Only Zoey is checked in
	seedAttendance(t, r, attendance.Attendance{EmployeeID: zoe.ID, CheckIn: day, AttendanceTypeID: &office.ID})
	out := day.Add(time.Hour)
	seedAttendance(t, r, attendance.Attendance{EmployeeID: adam.ID, CheckIn: day, CheckOut: &out, AttendanceTypeID: &office.ID})

	require.NoError(t, r.Employees.RecomputeAttendanceTypes(ctx, &absent.ID))

	got, err = r.Employees.GetByID(ctx, zoe.ID)
	require.NoError(t, err)
	assert.Equal(t, office.ID, *got.AttendanceTypeID)
	got, err = r.Employees.GetByID(ctx, adam.ID)
	require.NoError(t, err)
	assert.Equal(t, absent.ID, *got.AttendanceTypeID)
}

func testAttendances(t *testing.T, r Repos) {
	ctx := context.Background()
	_, office := seedTypes(t, r)
	jane, err := r.Employees.Create(ctx, employee.Employee{Name: "Jane"})
	require.NoError(t, err)
	john, err := r.Employees.Create(ctx, employee.Employee{Name: "John"})
	require.NoError(t, err)

	_, err = r.Attendances.GetOpen(ctx, jane.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	_, err = r.Attendances.GetLatest(ctx, jane.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	out := day.Add(8 * time.Hour)
	first := seedAttendance(t, r, attendance.Attendance{EmployeeID: jane.ID, CheckIn: day, CheckOut: &out, AttendanceTypeID: &office.ID, Comment: ptr("first")})
	second := seedAttendance(t, r, attendance.Attendance{EmployeeID: jane.ID, CheckIn: day.AddDate(0, 0, 1), AttendanceTypeID: &office.ID})
	johns := seedAttendance(t, r, attendance.Attendance{EmployeeID: john.ID, CheckIn: day})

	got, err := r.Attendances.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, day.Equal(got.CheckIn))
	require.NotNil(t, got.CheckOut)
	assert.True(t, out.Equal(*got.CheckOut))
	require.NotNil(t, got.WorkedSeconds)
	assert.Equal(t, int64(8*3600), *got.WorkedSeconds)
	require.NotNil(t, got.EmployeeName)
	assert.Equal(t, "Jane", *got.EmployeeName)
	require.NotNil(t, got.AttendanceTypeName)
	assert.Equal(t, "Office", *got.AttendanceTypeName)
	assert.Equal(t, "first", *got.Comment)

	open, err := r.Attendances.GetOpen(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, open.ID)

	latest, err := r.Attendances.GetLatest(ctx, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	all, err := r.Attendances.ListLatest(ctx)
	require.NoError(t, err)
	ids := map[string]string{}
	for _, a := range all {
		ids[a.EmployeeID] = a.ID
	}
	assert.Equal(t, map[string]string{jane.ID: second.ID, john.ID: johns.ID}, ids)

	// Break and close the open record
	require.NoError(t, open.StartBreak(open.CheckIn.Add(4*time.Hour)))
	require.NoError(t, r.Attendances.Update(ctx, open))
	got, err = r.Attendances.GetByID(ctx, open.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BreakStartTime)
	require.NoError(t, got.EndBreak(got.CheckIn.Add(5*time.Hour)))
	require.NoError(t, got.Close(got.CheckIn.Add(9*time.Hour)))
	require.NoError(t, r.Attendances.Update(ctx, got))

	got, err = r.Attendances.GetByID(ctx, open.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BreakStartTime)
	assert.Equal(t, int64(3600), got.BreakSeconds)
	require.NotNil(t, got.WorkedSeconds)
	assert.Equal(t, int64(8*3600), *got.WorkedSeconds)

	overlapping, err := r.Attendances.ListOverlapping(ctx, jane.ID, day.Add(7*time.Hour), ptr(day.Add(9*time.Hour)), "")
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, first.ID, overlapping[0].ID)

	overlapping, err = r.Attendances.ListOverlapping(ctx, jane.ID, day.Add(7*time.Hour), nil, first.ID)
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, second.ID, overlapping[0].ID)

	count, err := r.Attendances.CountByAttendanceType(ctx, office.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, r.Attendances.Delete(ctx, first.ID))
	assert.ErrorIs(t, r.Attendances.Delete(ctx, first.ID), attendance.ErrAttendanceNotFound)
	assert.ErrorIs(t, r.Attendances.Update(ctx, first), attendance.ErrAttendanceNotFound)
}

func testAttendanceList(t *testing.T, r Repos) {
	ctx := context.Background()
	jane, err := r.Employees.Create(ctx, employee.Employee{Name: "Jane"})
	require.NoError(t, err)
	john, err := r.Employees.Create(ctx, employee.Employee{Name: "John"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		in := day.AddDate(0, 0, i)
		out := in.Add(8 * time.Hour)
		seedAttendance(t, r, attendance.Attendance{EmployeeID: jane.ID, CheckIn: in, CheckOut: &out})
	}
	open := seedAttendance(t, r, attendance.Attendance{EmployeeID: jane.ID, CheckIn: day.AddDate(0, 0, 3)})
	seedAttendance(t, r, attendance.Attendance{EmployeeID: john.ID, CheckIn: day})

	list := func(f attendance.AttendanceFilter) ([]attendance.Attendance, int64) {
		t.Helper()
		require.NoError(t, f.Validate())
		records, total, err := r.Attendances.List(ctx, f)
		require.NoError(t, err)
		return records, total
	}

	records, total := list(attendance.AttendanceFilter{EmployeeID: &jane.ID, Limit: 2})
	assert.Equal(t, int64(4), total)
	require.Len(t, records, 2)
	assert.Equal(t, open.ID, records[0].ID)

	records, _ = list(attendance.AttendanceFilter{EmployeeID: &jane.ID, Limit: 2, Page: 2})
	require.Len(t, records, 2)
	assert.True(t, day.Equal(records[1].CheckIn))

	records, total = list(attendance.AttendanceFilter{Open: ptr(false)})
	assert.Equal(t, int64(3), total)
	for _, rec := range records {
		assert.NotNil(t, rec.CheckOut)
	}

	records, total = list(attendance.AttendanceFilter{StartDate: ptr("2024-03-05"), EndDate: ptr("2024-03-06")})
	assert.Equal(t, int64(2), total)
	require.Len(t, records, 2)

	records, _ = list(attendance.AttendanceFilter{SortBy: "check_in", SortOrder: "asc"})
	require.Len(t, records, 5)
	assert.True(t, day.Equal(records[0].CheckIn))
	assert.Equal(t, open.ID, records[4].ID)
}

func testUsers(t *testing.T, r Repos) {
	ctx := context.Background()
	e, err := r.Employees.Create(ctx, employee.Employee{Name: "Jane"})
	require.NoError(t, err)

	hash := "hash"
	created, err := r.Users.Create(ctx, user.User{Email: "jane@example.com", PasswordHash: &hash, Role: user.RoleEmployee, EmployeeID: &e.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	exists, err := r.Users.ExistsByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := r.Users.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, user.RoleEmployee, got.Role)
	assert.Equal(t, e.ID, *got.EmployeeID)

	got, err = r.Users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", got.Email)

	_, err = r.Users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func testRefreshTokens(t *testing.T, r Repos) {
	ctx := context.Background()
	u, err := r.Users.Create(ctx, user.User{Email: "jane@example.com", Role: user.RoleOfficer})
	require.NoError(t, err)
	session := auth.SessionTrackingRequest{UserAgent: "test", IPAddress: "127.0.0.1"}

	_, _, err = r.RefreshTokens.IsRefreshTokenRevoked(ctx, "unknown")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, r.RefreshTokens.CreateRefreshToken(ctx, u.ID, "valid", time.Now().Add(time.Hour).Unix(), session))
	userID, revoked, err := r.RefreshTokens.IsRefreshTokenRevoked(ctx, "valid")
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.False(t, revoked)

	require.NoError(t, r.RefreshTokens.RevokeRefreshToken(ctx, "valid"))
	_, revoked, err = r.RefreshTokens.IsRefreshTokenRevoked(ctx, "valid")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, r.RefreshTokens.CreateRefreshToken(ctx, u.ID, "expired", time.Now().Add(-time.Hour).Unix(), session))
	_, revoked, err = r.RefreshTokens.IsRefreshTokenRevoked(ctx, "expired")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func testTransactions(t *testing.T, r Repos) {
	ctx := context.Background()
	rollback := errors.New("rollback")

	err := r.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := r.Employees.Create(ctx, employee.Employee{Name: "Ghost"}); err != nil {
			return err
		}
		// Nested calls join the outer transaction
		return r.Tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := r.Employees.Create(ctx, employee.Employee{Name: "Ghost 2"}); err != nil {
				return err
			}
			return rollback
		})
	})
	assert.ErrorIs(t, err, rollback)

	employees, err := r.Employees.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)

	require.NoError(t, r.Tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := r.Employees.Create(ctx, employee.Employee{Name: "Jane"})
		return err
	}))
	employees, err = r.Employees.List(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 1)
}
