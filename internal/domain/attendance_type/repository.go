package attendance_type

import "context"

type AttendanceTypeRepository interface {
	Create(ctx context.Context, t AttendanceType) (AttendanceType, error)
	GetByID(ctx context.Context, id string) (AttendanceType, error)

	// List returns every type ordered by sequence, id.
	List(ctx context.Context) ([]AttendanceType, error)

	// GetAbsent returns the first absent type in order, ErrNoAbsentType if none.
	GetAbsent(ctx context.Context) (AttendanceType, error)

	Update(ctx context.Context, t AttendanceType) error

	// ClearAbsentExcept removes the absent flag from every type but keepID.
	ClearAbsentExcept(ctx context.Context, keepID string) error

	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
