package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Lookups of a single record return ErrAttendanceNotFound when nothing matches.
type AttendanceRepository interface {
	Create(ctx context.Context, attendance Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)
	Update(ctx context.Context, attendance Attendance) error
	Delete(ctx context.Context, id string) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// GetOpen returns the attendance of the employee without check out
	GetOpen(ctx context.Context, employeeID string) (Attendance, error)

	// GetLatest returns the attendance of the employee with the latest check in
	GetLatest(ctx context.Context, employeeID string) (Attendance, error)

	// ListLatest returns the latest attendance of every employee that has one
	ListLatest(ctx context.Context) ([]Attendance, error)

	// ListOverlapping returns the employee's records, except excludeID, whose
	// interval may conflict with [checkIn, checkOut). A nil checkOut means open.
	ListOverlapping(ctx context.Context, employeeID string, checkIn time.Time, checkOut *time.Time, excludeID string) ([]Attendance, error)

	CountByAttendanceType(ctx context.Context, attendanceTypeID string) (int64, error)
}
