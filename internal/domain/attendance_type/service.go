package attendance_type

import "context"

// AttendanceTypeService manages kanban lanes and the single absent type.
type AttendanceTypeService interface {
	List(ctx context.Context) ([]AttendanceTypeResponse, error)
	Get(ctx context.Context, id string) (AttendanceTypeResponse, error)
	Create(ctx context.Context, req CreateAttendanceTypeRequest) (AttendanceTypeResponse, error)
	Update(ctx context.Context, req UpdateAttendanceTypeRequest) (AttendanceTypeResponse, error)
	Delete(ctx context.Context, id string) error

	// EnsureDefaults seeds Defaults when no type exists.
	EnsureDefaults(ctx context.Context) error

	// RepairAbsent restores the single absent type invariant.
	RepairAbsent(ctx context.Context) error
}
