package attendance_type

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance_type"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/database"
)

type AttendanceTypeServiceImpl struct {
	tx             database.Transactor
	typeRepo       attendance_type.AttendanceTypeRepository
	attendanceRepo attendance.AttendanceRepository
	cache          employee.AttendanceTypeCache
}

func NewAttendanceTypeService(
	tx database.Transactor,
	typeRepo attendance_type.AttendanceTypeRepository,
	attendanceRepo attendance.AttendanceRepository,
	cache employee.AttendanceTypeCache,
) attendance_type.AttendanceTypeService {
	return &AttendanceTypeServiceImpl{
		tx:             tx,
		typeRepo:       typeRepo,
		attendanceRepo: attendanceRepo,
		cache:          cache,
	}
}

// List implements attendance_type.AttendanceTypeService.
func (s *AttendanceTypeServiceImpl) List(ctx context.Context) ([]attendance_type.AttendanceTypeResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionAttendanceTypeView); err != nil {
		return nil, err
	}

	types, err := s.typeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]attendance_type.AttendanceTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, attendance_type.ToResponse(t))
	}
	return resp, nil
}

// Get implements attendance_type.AttendanceTypeService.
func (s *AttendanceTypeServiceImpl) Get(ctx context.Context, id string) (attendance_type.AttendanceTypeResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionAttendanceTypeView); err != nil {
		return attendance_type.AttendanceTypeResponse{}, err
	}

	t, err := s.typeRepo.GetByID(ctx, id)
	if err != nil {
		return attendance_type.AttendanceTypeResponse{}, err
	}
	return attendance_type.ToResponse(t), nil
}

// Create implements attendance_type.AttendanceTypeService.
func (s *AttendanceTypeServiceImpl) Create(ctx context.Context, req attendance_type.CreateAttendanceTypeRequest) (attendance_type.AttendanceTypeResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionAttendanceTypeManage); err != nil {
		return attendance_type.AttendanceTypeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance_type.AttendanceTypeResponse{}, err
	}

	var created attendance_type.AttendanceType
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.typeRepo.Create(ctx, attendance_type.AttendanceType{
			Name:     req.Name,
			Sequence: req.Sequence,
			Absent:   req.Absent,
		})
		if err != nil {
			return err
		}

		if created.Absent {
			if err := s.typeRepo.ClearAbsentExcept(ctx, created.ID); err != nil {
				return err
			}
			return s.cache.RecomputeAll(ctx)
		}

		// The first type ever created has to carry the flag.
		if err := s.repairAbsent(ctx); err != nil {
			return err
		}
		created, err = s.typeRepo.GetByID(ctx, created.ID)
		return err
	})
	if err != nil {
		return attendance_type.AttendanceTypeResponse{}, err
	}

	return attendance_type.ToResponse(created), nil
}

// Update implements attendance_type.AttendanceTypeService.
func (s *AttendanceTypeServiceImpl) Update(ctx context.Context, req attendance_type.UpdateAttendanceTypeRequest) (attendance_type.AttendanceTypeResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionAttendanceTypeManage); err != nil {
		return attendance_type.AttendanceTypeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance_type.AttendanceTypeResponse{}, err
	}

	var updated attendance_type.AttendanceType
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.typeRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		becameAbsent := false
		if req.Absent != nil && *req.Absent != current.Absent {
			if !*req.Absent {
				return attendance_type.ErrAbsentTypeRequired
			}
			becameAbsent = true
			current.Absent = true
		}
		if req.Name != nil {
			current.Name = *req.Name
		}
		if req.Sequence != nil {
			current.Sequence = *req.Sequence
		}

		if err := s.typeRepo.Update(ctx, current); err != nil {
			return err
		}
		if becameAbsent {
			if err := s.typeRepo.ClearAbsentExcept(ctx, current.ID); err != nil {
				return err
			}
			if err := s.cache.RecomputeAll(ctx); err != nil {
				return err
			}
		}

		updated, err = s.typeRepo.GetByID(ctx, current.ID)
		return err
	})
	if err != nil {
		return attendance_type.AttendanceTypeResponse{}, err
	}

	return attendance_type.ToResponse(updated), nil
}

// Delete implements attendance_type.AttendanceTypeService.
func (s *AttendanceTypeServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := user.RequirePermission(ctx, user.PermissionAttendanceTypeManage); err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.typeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Absent {
			return attendance_type.ErrDeleteAbsentType
		}

		used, err := s.attendanceRepo.CountByAttendanceType(ctx, id)
		if err != nil {
			return err
		}
		if used > 0 {
			return attendance_type.ErrAttendanceTypeInUse
		}

		return s.typeRepo.Delete(ctx, id)
	})
}

// EnsureDefaults implements attendance_type.AttendanceTypeService.
func (s *AttendanceTypeServiceImpl) EnsureDefaults(ctx context.Context) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		count, err := s.typeRepo.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		for _, t := range attendance_type.Defaults {
			if _, err := s.typeRepo.Create(ctx, t); err != nil {
				return err
			}
		}
		slog.Info("seeded default attendance types", "count", len(attendance_type.Defaults))

		return s.cache.RecomputeAll(ctx)
	})
}

// RepairAbsent implements attendance_type.AttendanceTypeService.
func (s *AttendanceTypeServiceImpl) RepairAbsent(ctx context.Context) error {
	return s.tx.WithinTx(ctx, s.repairAbsent)
}

// repairAbsent applies PlanAbsentRepair and refreshes the employee cache when
// the absent type changed.
func (s *AttendanceTypeServiceImpl) repairAbsent(ctx context.Context) error {
	types, err := s.typeRepo.List(ctx)
	if err != nil {
		return err
	}

	repair := attendance_type.PlanAbsentRepair(types)
	if !repair.Needed() {
		return nil
	}

	if repair.Set != nil {
		set := *repair.Set
		set.Absent = true
		if err := s.typeRepo.Update(ctx, set); err != nil {
			return err
		}
		slog.Warn("no attendance type was marked absent", "attendance_type_id", set.ID, "name", set.Name)
	}
	for _, t := range repair.Clear {
		t.Absent = false
		if err := s.typeRepo.Update(ctx, t); err != nil {
			return err
		}
		slog.Warn("removed duplicate absent flag", "attendance_type_id", t.ID, "name", t.Name)
	}

	return s.cache.RecomputeAll(ctx)
}
