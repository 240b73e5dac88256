package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance_type"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	tx             database.Transactor
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	typeRepo       attendance_type.AttendanceTypeRepository
	userRepo       user.UserRepository
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	typeRepo attendance_type.AttendanceTypeRepository,
	userRepo user.UserRepository,
) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{
		tx:             tx,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		typeRepo:       typeRepo,
		userRepo:       userRepo,
	}
}

var _ employee.EmployeeService = (*EmployeeServiceImpl)(nil)

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionEmployeeManage); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var created employee.Employee
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if req.Login != nil {
			exists, err := s.userRepo.ExistsByEmail(ctx, req.Login.Email)
			if err != nil {
				return err
			}
			if exists {
				return user.ErrUserEmailExists
			}
		}

		absentID, err := s.absentTypeID(ctx)
		if err != nil {
			return err
		}

		created, err = s.employeeRepo.Create(ctx, employee.Employee{Name: req.Name, AttendanceTypeID: absentID})
		if err != nil {
			return err
		}

		if req.Login != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Login.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			hashed := string(hash)
			employeeID := created.ID
			if _, err := s.userRepo.Create(ctx, user.User{
				Email:        req.Login.Email,
				PasswordHash: &hashed,
				Role:         user.Role(req.Login.Role),
				EmployeeID:   &employeeID,
			}); err != nil {
				return err
			}
		}

		created, err = s.employeeRepo.GetByID(ctx, created.ID)
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.ToResponse(created, employee.PresenceOf(nil)), nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if _, err := user.RequirePermission(ctx, user.PermissionEmployeeManage); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var (
		updated  employee.Employee
		presence employee.Presence
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.employeeRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		current.Name = req.Name
		if err := s.employeeRepo.Update(ctx, current); err != nil {
			return err
		}
		if updated, err = s.employeeRepo.GetByID(ctx, req.ID); err != nil {
			return err
		}
		presence, err = s.presence(ctx, req.ID)
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.ToResponse(updated, presence), nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionEmployeeView)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	var resp employee.EmployeeResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		e, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		p, err := s.presence(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanManageAttendanceOf(id) {
			p = p.Restricted()
		}
		resp = employee.ToResponse(e, p)
		return nil
	})
	return resp, err
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionEmployeeView)
	if err != nil {
		return nil, err
	}

	var resp []employee.EmployeeResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		employees, presences, err := s.ListWithPresence(ctx)
		if err != nil {
			return err
		}
		resp = make([]employee.EmployeeResponse, 0, len(employees))
		for _, e := range employees {
			p := presences[e.ID]
			if !actor.CanManageAttendanceOf(e.ID) {
				p = p.Restricted()
			}
			resp = append(resp, employee.ToResponse(e, p))
		}
		return nil
	})
	return resp, err
}

// GetPublic implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetPublic(ctx context.Context, id string) (employee.EmployeePublicResponse, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionEmployeeView)
	if err != nil {
		return employee.EmployeePublicResponse{}, err
	}

	var resp employee.EmployeePublicResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		e, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		p, err := s.presence(ctx, id)
		if err != nil {
			return err
		}
		resp = employee.ToPublicResponse(e, p, actor.CanManageAttendanceOf(id))
		return nil
	})
	return resp, err
}

// ListWithPresence returns every employee along with the presence derived
// from their latest attendance, keyed by employee ID.
func (s *EmployeeServiceImpl) ListWithPresence(ctx context.Context) ([]employee.Employee, map[string]employee.Presence, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	latest, err := s.attendanceRepo.ListLatest(ctx)
	if err != nil {
		return nil, nil, err
	}

	presences := make(map[string]employee.Presence, len(employees))
	for i := range latest {
		presences[latest[i].EmployeeID] = employee.PresenceOf(&latest[i])
	}
	for _, e := range employees {
		if _, ok := presences[e.ID]; !ok {
			presences[e.ID] = employee.PresenceOf(nil)
		}
	}
	return employees, presences, nil
}

// RecomputeAttendanceType implements employee.AttendanceTypeCache.
func (s *EmployeeServiceImpl) RecomputeAttendanceType(ctx context.Context, employeeID string) error {
	open, err := s.attendanceRepo.GetOpen(ctx, employeeID)
	switch {
	case err == nil:
		return s.employeeRepo.SetAttendanceType(ctx, employeeID, open.AttendanceTypeID)
	case !errors.Is(err, attendance.ErrAttendanceNotFound):
		return err
	}

	absentID, err := s.absentTypeID(ctx)
	if err != nil {
		return err
	}
	return s.employeeRepo.SetAttendanceType(ctx, employeeID, absentID)
}

// RecomputeAll implements employee.AttendanceTypeCache.
func (s *EmployeeServiceImpl) RecomputeAll(ctx context.Context) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		absentID, err := s.absentTypeID(ctx)
		if err != nil {
			return err
		}
		return s.employeeRepo.RecomputeAttendanceTypes(ctx, absentID)
	})
}

func (s *EmployeeServiceImpl) presence(ctx context.Context, employeeID string) (employee.Presence, error) {
	latest, err := s.attendanceRepo.GetLatest(ctx, employeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return employee.PresenceOf(nil), nil
		}
		return employee.Presence{}, err
	}
	return employee.PresenceOf(&latest), nil
}

// absentTypeID returns the absent type, nil while no type is marked absent.
func (s *EmployeeServiceImpl) absentTypeID(ctx context.Context) (*string, error) {
	absent, err := s.typeRepo.GetAbsent(ctx)
	if err != nil {
		if errors.Is(err, attendance_type.ErrNoAbsentType) {
			return nil, nil
		}
		return nil, err
	}
	return &absent.ID, nil
}
