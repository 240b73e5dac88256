package attendance

import (
	"context"
)

// AttendanceService defines business logic for manual attendance management
type AttendanceService interface {
	// Create records an attendance manually (officer)
	Create(ctx context.Context, req CreateAttendanceRequest) (AttendanceResponse, error)

	// Update fixes an attendance record (officer)
	Update(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	// Delete removes an attendance record (officer)
	Delete(ctx context.Context, id string) error

	// Get retrieves a single attendance record by ID
	Get(ctx context.Context, id string) (AttendanceResponse, error)

	// List retrieves attendance records with filters; employees only see their own
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
