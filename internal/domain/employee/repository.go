package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, employee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)

	// List returns every employee ordered by name, id.
	List(ctx context.Context) ([]Employee, error)

	Update(ctx context.Context, employee Employee) error

	// SetAttendanceType updates the cached attendance type of one employee.
	SetAttendanceType(ctx context.Context, id string, attendanceTypeID *string) error

	// RecomputeAttendanceTypes refreshes the cache of every employee: checked
	// in employees get the type of their open attendance, the others get
	// absentTypeID.
	RecomputeAttendanceTypes(ctx context.Context, absentTypeID *string) error
}
