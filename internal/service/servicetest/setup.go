// Package servicetest builds service dependencies on an in-memory SQLite
// database for tests.
package servicetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance_type"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/auth"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/repository/sqlite"
	"github.com/stretchr/testify/require"
)

// Env holds the repositories of one test database.
type Env struct {
	Store         *sqlite.Store
	Users         user.UserRepository
	Employees     employee.EmployeeRepository
	Attendances   attendance.AttendanceRepository
	Types         attendance_type.AttendanceTypeRepository
	RefreshTokens auth.RefreshTokenRepository
	Notifier      *RecordingNotifier
}

// NewEnv opens a fresh database, closed when the test ends.
func NewEnv(t testing.TB) *Env {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &Env{
		Store:         store,
		Users:         sqlite.NewUserRepository(store),
		Employees:     sqlite.NewEmployeeRepository(store),
		Attendances:   sqlite.NewAttendanceRepository(store),
		Types:         sqlite.NewAttendanceTypeRepository(store),
		RefreshTokens: sqlite.NewRefreshTokenRepository(store),
		Notifier:      &RecordingNotifier{},
	}
}

// Lanes are the default attendance types created by SeedTypes.
type Lanes struct {
	Absent, Office, Home attendance_type.AttendanceType
}

// SeedTypes creates Absent, Office and Home.
func (e *Env) SeedTypes(t testing.TB) Lanes {
	t.Helper()
	ctx := context.Background()

	var lanes Lanes
	var err error
	lanes.Absent, err = e.Types.Create(ctx, attendance_type.AttendanceType{Name: "Absent", Sequence: 0, Absent: true})
	require.NoError(t, err)
	lanes.Office, err = e.Types.Create(ctx, attendance_type.AttendanceType{Name: "Office", Sequence: 1})
	require.NoError(t, err)
	lanes.Home, err = e.Types.Create(ctx, attendance_type.AttendanceType{Name: "Home", Sequence: 2})
	require.NoError(t, err)
	return lanes
}

// SeedEmployee creates an employee cached in the given lane.
func (e *Env) SeedEmployee(t testing.TB, name string, typeID *string) employee.Employee {
	t.Helper()

	created, err := e.Employees.Create(context.Background(), employee.Employee{Name: name, AttendanceTypeID: typeID})
	require.NoError(t, err)
	return created
}

// SeedAttendance stores att as is.
func (e *Env) SeedAttendance(t testing.TB, att attendance.Attendance) attendance.Attendance {
	t.Helper()

	att.Recompute()
	created, err := e.Attendances.Create(context.Background(), att)
	require.NoError(t, err)
	return created
}

// Officer returns a context acting as an attendance officer.
func Officer() context.Context {
	return user.WithActor(context.Background(), user.Actor{UserID: "officer", Email: "officer@example.com", Role: user.RoleOfficer})
}

// Manager returns a context acting as a manager.
func Manager() context.Context {
	return user.WithActor(context.Background(), user.Actor{UserID: "manager", Email: "manager@example.com", Role: user.RoleManager})
}

// EmployeeActor returns a context acting as the user linked to employeeID.
func EmployeeActor(employeeID string) context.Context {
	id := employeeID
	return user.WithActor(context.Background(), user.Actor{UserID: "user-" + employeeID, Email: "employee@example.com", Role: user.RoleEmployee, EmployeeID: &id})
}

// Clock returns a fixed time source.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Change is one recorded notification.
type Change struct {
	EmployeeID   string
	AttendanceID string
}

// RecordingNotifier implements kanban.Notifier by remembering every call.
type RecordingNotifier struct {
	mu      sync.Mutex
	changes []Change
}

func (n *RecordingNotifier) AttendanceChanged(_ context.Context, employeeID, attendanceID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, Change{EmployeeID: employeeID, AttendanceID: attendanceID})
}

// Changes returns the notifications received so far.
func (n *RecordingNotifier) Changes() []Change {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Change(nil), n.changes...)
}
