package kanban

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance_type"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/kanban"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/database"
)

// EmployeeDirectory is the part of the employee service the board needs.
type EmployeeDirectory interface {
	employee.AttendanceTypeCache
	ListWithPresence(ctx context.Context) ([]employee.Employee, map[string]employee.Presence, error)
}

type KanbanServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	typeRepo       attendance_type.AttendanceTypeRepository
	employees      EmployeeDirectory
	notifier       kanban.Notifier
	now            func() time.Time
}

func NewKanbanService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	typeRepo attendance_type.AttendanceTypeRepository,
	employees EmployeeDirectory,
	notifier kanban.Notifier,
) *KanbanServiceImpl {
	return &KanbanServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		typeRepo:       typeRepo,
		employees:      employees,
		notifier:       notifier,
		now:            time.Now,
	}
}

var _ kanban.KanbanService = (*KanbanServiceImpl)(nil)

// Board implements kanban.KanbanService.
func (s *KanbanServiceImpl) Board(ctx context.Context) (kanban.BoardResponse, error) {
	actor, err := user.RequirePermission(ctx, user.PermissionEmployeeView)
	if err != nil {
		return kanban.BoardResponse{}, err
	}

	var board kanban.BoardResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		types, err := s.typeRepo.List(ctx)
		if err != nil {
			return err
		}
		employees, presences, err := s.employees.ListWithPresence(ctx)
		if err != nil {
			return err
		}

		board.Lanes = make([]kanban.Lane, len(types))
		laneIndex := make(map[string]int, len(types))
		for i, t := range types {
			board.Lanes[i] = kanban.Lane{
				AttendanceType: attendance_type.ToResponse(t),
				Employees:      []employee.EmployeePublicResponse{},
			}
			laneIndex[t.ID] = i
		}

		for _, e := range employees {
			card := employee.ToPublicResponse(e, presences[e.ID], actor.CanManageAttendanceOf(e.ID))
			if e.AttendanceTypeID == nil {
				board.Unassigned = append(board.Unassigned, card)
				continue
			}
			i, ok := laneIndex[*e.AttendanceTypeID]
			if !ok {
				board.Unassigned = append(board.Unassigned, card)
				continue
			}
			board.Lanes[i].Employees = append(board.Lanes[i].Employees, card)
		}
		return nil
	})
	return board, err
}

// UpdateAttendanceType implements kanban.KanbanService.
func (s *KanbanServiceImpl) UpdateAttendanceType(ctx context.Context, req kanban.UpdateAttendanceTypeRequest) (kanban.UpdateAttendanceTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return kanban.UpdateAttendanceTypeResponse{}, err
	}
	if err := s.authorize(ctx, req.EmployeeID); err != nil {
		return kanban.UpdateAttendanceTypeResponse{}, err
	}

	var (
		wizard       bool
		attendanceID string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
			return err
		}
		next, err := s.lane(ctx, req.NextAttendanceTypeID)
		if err != nil {
			return err
		}
		open, err := s.openAttendance(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		var (
			state   = attendance.StateOf(open)
			current *string
		)
		if open != nil {
			current = open.AttendanceTypeID
		}
		if kanban.NeedsWizard(state, current, next.ID, next.Absent) {
			wizard = true
			return nil
		}

		open.AttendanceTypeID = &next.ID
		if err := s.attendanceRepo.Update(ctx, *open); err != nil {
			return err
		}
		attendanceID = open.ID
		return s.employees.RecomputeAttendanceType(ctx, req.EmployeeID)
	})
	if err != nil {
		return kanban.UpdateAttendanceTypeResponse{}, err
	}

	if !wizard {
		s.notifier.AttendanceChanged(ctx, req.EmployeeID, attendanceID)
	}
	return kanban.UpdateAttendanceTypeResponse{WizardRequired: wizard}, nil
}

// PrepareCheckInOut implements kanban.KanbanService.
func (s *KanbanServiceImpl) PrepareCheckInOut(ctx context.Context, req kanban.PrepareCheckInOutRequest) (kanban.CheckInOutWizard, error) {
	employeeID := valueOrEmpty(req.EmployeeID)
	nextTypeID := valueOrEmpty(req.NextAttendanceTypeID)

	if !req.ManualMode {
		if employeeID == "" {
			return kanban.CheckInOutWizard{}, kanban.ErrEmployeeRequired
		}
		if nextTypeID == "" {
			return kanban.CheckInOutWizard{}, kanban.ErrAttendanceTypeRequired
		}
	}

	wizard := kanban.CheckInOutWizard{
		EmployeeID:           req.EmployeeID,
		NextAttendanceTypeID: req.NextAttendanceTypeID,
		ManualMode:           req.ManualMode,
		AttendanceState:      attendance.StateCheckedOut,
	}
	now := attendance.RoundDown(s.now(), kanban.CheckInOutStep)

	if employeeID == "" {
		// Manual mode without employee, the user picks one in the wizard
		wizard.StartTime = attendance.TimePtrToString(&now)
		return wizard, nil
	}
	if err := s.authorize(ctx, employeeID); err != nil {
		return kanban.CheckInOutWizard{}, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) && !req.ManualMode {
				return kanban.ErrEmployeeRequired
			}
			return err
		}
		open, err := s.openAttendance(ctx, employeeID)
		if err != nil {
			return err
		}
		wizard.AttendanceState = attendance.StateOf(open)

		if nextTypeID != "" {
			next, err := s.lane(ctx, nextTypeID)
			if err != nil {
				if errors.Is(err, kanban.ErrAttendanceTypeNotOnBoard) && !req.ManualMode {
					return kanban.ErrAttendanceTypeRequired
				}
				return err
			}
			if !req.ManualMode {
				if open != nil && !next.Absent {
					return kanban.ErrMoveToAbsentToCheckOut
				}
				if open == nil && next.Absent {
					return kanban.ErrMoveToPresentToCheckIn
				}
			}
		}

		if open == nil {
			wizard.StartTime = attendance.TimePtrToString(&now)
			return nil
		}
		wizard.LastAttendanceID = &open.ID
		wizard.StartTime = attendance.TimePtrToString(&open.CheckIn)
		wizard.EndTime = attendance.TimePtrToString(&now)
		wizard.Comment = open.Comment
		return nil
	})
	if err != nil {
		return kanban.CheckInOutWizard{}, err
	}
	return wizard, nil
}

// CheckInOut implements kanban.KanbanService. A checked out employee is
// checked in, a checked in employee is checked out.
func (s *KanbanServiceImpl) CheckInOut(ctx context.Context, req kanban.CheckInOutRequest) (kanban.ActionResult, error) {
	if err := req.Validate(); err != nil {
		return kanban.ActionResult{}, err
	}
	if err := s.authorize(ctx, req.EmployeeID); err != nil {
		return kanban.ActionResult{}, err
	}

	var attendanceID string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
			return err
		}
		open, err := s.openAttendance(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		if open == nil {
			attendanceID, err = s.checkIn(ctx, req)
		} else {
			attendanceID, err = s.checkOut(ctx, *open, req)
		}
		if err != nil {
			return err
		}
		return s.employees.RecomputeAttendanceType(ctx, req.EmployeeID)
	})
	if err != nil {
		return kanban.ActionResult{}, err
	}

	s.notifier.AttendanceChanged(ctx, req.EmployeeID, attendanceID)
	return kanban.CloseWindow(req.EmployeeID, attendanceID), nil
}

func (s *KanbanServiceImpl) checkIn(ctx context.Context, req kanban.CheckInOutRequest) (string, error) {
	if req.NextAttendanceTypeID == nil || *req.NextAttendanceTypeID == "" {
		return "", attendance.ErrAlreadyCheckedOut
	}
	next, err := s.lane(ctx, *req.NextAttendanceTypeID)
	if err != nil {
		return "", err
	}
	if next.Absent {
		return "", attendance.ErrAlreadyCheckedOut
	}

	start := attendance.Normalize(s.now())
	if req.Start != nil {
		start = *req.Start
	}

	latest, err := s.attendanceRepo.GetLatest(ctx, req.EmployeeID)
	switch {
	case err == nil:
		if !start.After(latest.CheckIn) {
			return "", attendance.ErrCheckInBeforePrevious
		}
	case !errors.Is(err, attendance.ErrAttendanceNotFound):
		return "", err
	}

	att := attendance.Attendance{
		EmployeeID:       req.EmployeeID,
		CheckIn:          start,
		AttendanceTypeID: &next.ID,
		Comment:          emptyToNil(req.Comment),
	}
	if err := s.checkTimeline(ctx, att); err != nil {
		return "", err
	}
	att.Recompute()

	created, err := s.attendanceRepo.Create(ctx, att)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (s *KanbanServiceImpl) checkOut(ctx context.Context, open attendance.Attendance, req kanban.CheckInOutRequest) (string, error) {
	if req.Start != nil {
		open.CheckIn = *req.Start
	}
	if req.Comment != nil {
		open.Comment = emptyToNil(req.Comment)
	}

	end := attendance.Normalize(s.now())
	if req.End != nil {
		end = *req.End
	}
	if err := open.Close(end); err != nil {
		return "", err
	}
	if err := s.checkTimeline(ctx, open); err != nil {
		return "", err
	}

	if err := s.attendanceRepo.Update(ctx, open); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return "", attendance.ErrCheckOutNotFound
		}
		return "", err
	}
	return open.ID, nil
}

// PrepareBreak implements kanban.KanbanService.
func (s *KanbanServiceImpl) PrepareBreak(ctx context.Context, employeeID string) (kanban.BreakWizard, error) {
	if employeeID == "" {
		return kanban.BreakWizard{}, kanban.ErrEmployeeRequired
	}
	if err := s.authorize(ctx, employeeID); err != nil {
		return kanban.BreakWizard{}, err
	}

	now := attendance.RoundDown(s.now(), kanban.BreakStep)
	wizard := kanban.BreakWizard{
		EmployeeID:      employeeID,
		AttendanceState: attendance.StateCheckedOut,
		StartTime:       *attendance.TimePtrToString(&now),
		EndTime:         *attendance.TimePtrToString(&now),
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
			return err
		}
		open, err := s.openAttendance(ctx, employeeID)
		if err != nil || open == nil {
			return err
		}

		wizard.AttendanceState = attendance.StateCheckedIn
		wizard.LastAttendanceID = &open.ID
		if open.OnBreak() {
			wizard.OnBreak = attendance.TimePtrToString(open.BreakStartTime)
			wizard.StartTime = *wizard.OnBreak
		}
		return nil
	})
	if err != nil {
		return kanban.BreakWizard{}, err
	}
	return wizard, nil
}

// StartBreak implements kanban.KanbanService.
func (s *KanbanServiceImpl) StartBreak(ctx context.Context, req kanban.BreakRequest) (kanban.ActionResult, error) {
	return s.changeBreak(ctx, req, func(att *attendance.Attendance, req kanban.BreakRequest) error {
		start := attendance.Normalize(s.now())
		if req.Start != nil {
			start = *req.Start
		}
		return att.StartBreak(start)
	})
}

// EndBreak implements kanban.KanbanService.
func (s *KanbanServiceImpl) EndBreak(ctx context.Context, req kanban.BreakRequest) (kanban.ActionResult, error) {
	return s.changeBreak(ctx, req, func(att *attendance.Attendance, req kanban.BreakRequest) error {
		end := attendance.Normalize(s.now())
		if req.End != nil {
			end = *req.End
		}
		return att.EndBreak(end)
	})
}

func (s *KanbanServiceImpl) changeBreak(ctx context.Context, req kanban.BreakRequest, apply func(*attendance.Attendance, kanban.BreakRequest) error) (kanban.ActionResult, error) {
	if err := req.Validate(); err != nil {
		return kanban.ActionResult{}, err
	}
	if err := s.authorize(ctx, req.EmployeeID); err != nil {
		return kanban.ActionResult{}, err
	}

	var attendanceID string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
			return err
		}
		open, err := s.openAttendance(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if open == nil {
			return attendance.ErrNotCheckedIn
		}

		if err := apply(open, req); err != nil {
			return err
		}
		attendanceID = open.ID
		return s.attendanceRepo.Update(ctx, *open)
	})
	if err != nil {
		return kanban.ActionResult{}, err
	}

	s.notifier.AttendanceChanged(ctx, req.EmployeeID, attendanceID)
	return kanban.CloseWindow(req.EmployeeID, attendanceID), nil
}

// authorize lets officers act on every employee and other users only on
// their own employee.
func (s *KanbanServiceImpl) authorize(ctx context.Context, employeeID string) error {
	actor, err := user.RequirePermission(ctx, user.PermissionAttendanceOwn)
	if err != nil {
		return err
	}
	if !actor.CanManageAttendanceOf(employeeID) {
		return kanban.ErrForbiddenEmployee
	}
	return nil
}

func (s *KanbanServiceImpl) lane(ctx context.Context, id string) (attendance_type.AttendanceType, error) {
	t, err := s.typeRepo.GetByID(ctx, id)
	if errors.Is(err, attendance_type.ErrAttendanceTypeNotFound) {
		return attendance_type.AttendanceType{}, kanban.ErrAttendanceTypeNotOnBoard
	}
	return t, err
}

// openAttendance returns the open attendance of the employee, nil when
// checked out.
func (s *KanbanServiceImpl) openAttendance(ctx context.Context, employeeID string) (*attendance.Attendance, error) {
	open, err := s.attendanceRepo.GetOpen(ctx, employeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &open, nil
}

func (s *KanbanServiceImpl) checkTimeline(ctx context.Context, att attendance.Attendance) error {
	if err := att.Validate(); err != nil {
		return err
	}
	others, err := s.attendanceRepo.ListOverlapping(ctx, att.EmployeeID, att.CheckIn, att.CheckOut, att.ID)
	if err != nil {
		return err
	}
	return attendance.CheckOverlap(att, others)
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
