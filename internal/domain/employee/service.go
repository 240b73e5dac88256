package employee

import "context"

// AttendanceTypeCache keeps Employee.AttendanceTypeID in sync with the
// attendance records. Both methods join the transaction carried by ctx.
type AttendanceTypeCache interface {
	RecomputeAttendanceType(ctx context.Context, employeeID string) error
	RecomputeAll(ctx context.Context) error
}

type EmployeeService interface {
	AttendanceTypeCache

	// Create adds an employee, optionally with a login (manager)
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// Update renames an employee (manager)
	Update(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	Get(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context) ([]EmployeeResponse, error)

	// GetPublic returns the projection readable by every employee. Check in,
	// check out and comment are only filled for officers and the employee
	// themselves.
	GetPublic(ctx context.Context, id string) (EmployeePublicResponse, error)
}
