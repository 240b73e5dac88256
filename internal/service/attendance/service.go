package attendance

import (
	"context"
	"fmt"
	"math"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance_type"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/kanban"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	typeRepo       attendance_type.AttendanceTypeRepository
	cache          employee.AttendanceTypeCache
	notifier       kanban.Notifier
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	typeRepo attendance_type.AttendanceTypeRepository,
	cache employee.AttendanceTypeCache,
	notifier kanban.Notifier,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		typeRepo:       typeRepo,
		cache:          cache,
		notifier:       notifier,
	}
}

// Create implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Create(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionAttendanceManageAll); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var created attendance.Attendance
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
			return err
		}
		typeID, err := s.attendanceTypeID(ctx, req.AttendanceTypeID)
		if err != nil {
			return err
		}

		att := attendance.Attendance{
			EmployeeID:       req.EmployeeID,
			CheckIn:          req.CheckInTime,
			CheckOut:         req.CheckOutTime,
			AttendanceTypeID: typeID,
			Comment:          emptyToNil(req.Comment),
		}
		if err := s.checkAndRecompute(ctx, &att); err != nil {
			return err
		}

		if created, err = s.attendanceRepo.Create(ctx, att); err != nil {
			return err
		}
		if err := s.cache.RecomputeAttendanceType(ctx, att.EmployeeID); err != nil {
			return err
		}

		created, err = s.attendanceRepo.GetByID(ctx, created.ID)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.notifier.AttendanceChanged(ctx, created.EmployeeID, created.ID)
	return attendance.ToResponse(created), nil
}

// Update implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionAttendanceManageAll); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var updated attendance.Attendance
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		att, err := s.attendanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.CheckInTime != nil {
			att.CheckIn = *req.CheckInTime
		}
		if req.CheckOutTime != nil {
			att.CheckOut = req.CheckOutTime
		}
		if req.ClearCheckOut {
			att.CheckOut = nil
		}
		if req.AttendanceTypeID != nil {
			if att.AttendanceTypeID, err = s.attendanceTypeID(ctx, req.AttendanceTypeID); err != nil {
				return err
			}
		}
		if req.Comment != nil {
			att.Comment = emptyToNil(req.Comment)
		}

		if err := s.checkAndRecompute(ctx, &att); err != nil {
			return err
		}
		if err := s.attendanceRepo.Update(ctx, att); err != nil {
			return err
		}
		if err := s.cache.RecomputeAttendanceType(ctx, att.EmployeeID); err != nil {
			return err
		}

		updated, err = s.attendanceRepo.GetByID(ctx, att.ID)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.notifier.AttendanceChanged(ctx, updated.EmployeeID, updated.ID)
	return attendance.ToResponse(updated), nil
}

// Delete implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := user.RequirePermission(ctx, user.PermissionAttendanceManageAll); err != nil {
		return err
	}

	var employeeID string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		att, err := s.attendanceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		employeeID = att.EmployeeID

		if err := s.attendanceRepo.Delete(ctx, id); err != nil {
			return err
		}
		return s.cache.RecomputeAttendanceType(ctx, employeeID)
	})
	if err != nil {
		return err
	}

	s.notifier.AttendanceChanged(ctx, employeeID, id)
	return nil
}

// Get implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionAttendanceOwn)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !actor.CanManageAttendanceOf(att.EmployeeID) {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}

	return attendance.ToResponse(att), nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionAttendanceOwn)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	// Employees only see their own attendances
	if !user.HasPermission(actor.Role, user.PermissionAttendanceManageAll) {
		if actor.EmployeeID == nil {
			return attendance.ListAttendanceResponse{}, attendance.ErrUnauthorized
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && *filter.EmployeeID != *actor.EmployeeID {
			return attendance.ListAttendanceResponse{}, attendance.ErrUnauthorized
		}
		filter.EmployeeID = actor.EmployeeID
	}

	attendances, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, attendance.ToResponse(att))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// checkAndRecompute validates att against its own invariants and the rest of
// the employee timeline, then refreshes the worked time.
func (s *AttendanceServiceImpl) checkAndRecompute(ctx context.Context, att *attendance.Attendance) error {
	if err := att.Validate(); err != nil {
		return err
	}

	others, err := s.attendanceRepo.ListOverlapping(ctx, att.EmployeeID, att.CheckIn, att.CheckOut, att.ID)
	if err != nil {
		return err
	}
	if err := attendance.CheckOverlap(*att, others); err != nil {
		return err
	}

	att.Recompute()
	return nil
}

// attendanceTypeID resolves an optional type reference, an empty value
// clears it.
func (s *AttendanceServiceImpl) attendanceTypeID(ctx context.Context, id *string) (*string, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	t, err := s.typeRepo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	return &t.ID, nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
