package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/utils"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

const employeeSelect = `
	SELECT e.id, e.name, e.attendance_type_id, e.created_at, e.updated_at, t.name
	FROM employees e
	LEFT JOIN attendance_types t ON t.id = e.attendance_type_id`

func scanEmployee(row scanner) (employee.Employee, error) {
	var (
		e                    employee.Employee
		createdAt, updatedAt string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.AttendanceTypeID, &createdAt, &updatedAt, &e.AttendanceTypeName); err != nil {
		return employee.Employee{}, err
	}
	var err error
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return employee.Employee{}, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if e.ID == "" {
		e.ID = utils.NewID()
	}
	ts := now()

	_, err := r.store.getQuerier(ctx).ExecContext(ctx, `
		INSERT INTO employees (id, name, attendance_type_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`, e.ID, e.Name, e.AttendanceTypeID, ts, ts)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	e.CreatedAt, _ = parseTime(ts)
	e.UpdatedAt = e.CreatedAt
	return e, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, err := scanEmployee(r.store.getQuerier(ctx).QueryRowContext(ctx, employeeSelect+` WHERE e.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	rows, err := r.store.getQuerier(ctx).QueryContext(ctx, employeeSelect+` ORDER BY e.name, e.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) error {
	res, err := r.store.getQuerier(ctx).ExecContext(ctx,
		`UPDATE employees SET name = ?, updated_at = ? WHERE id = ?`, e.Name, now(), e.ID)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return requireAffected(res, employee.ErrEmployeeNotFound)
}

func (r *employeeRepository) SetAttendanceType(ctx context.Context, id string, attendanceTypeID *string) error {
	res, err := r.store.getQuerier(ctx).ExecContext(ctx, `
		UPDATE employees SET attendance_type_id = ?, updated_at = ?
		WHERE id = ?`,
		attendanceTypeID, now(), id)
	if err != nil {
		return fmt.Errorf("failed to set employee attendance type: %w", err)
	}
	return requireAffected(res, employee.ErrEmployeeNotFound)
}

func (r *employeeRepository) RecomputeAttendanceTypes(ctx context.Context, absentTypeID *string) error {
	q := r.store.getQuerier(ctx)
	ts := now()

	_, err := q.ExecContext(ctx, `
		UPDATE employees
		SET attendance_type_id = (
				SELECT a.attendance_type_id FROM attendances a
				WHERE a.employee_id = employees.id AND a.check_out IS NULL),
			updated_at = ?
		WHERE EXISTS (
				SELECT 1 FROM attendances a
				WHERE a.employee_id = employees.id AND a.check_out IS NULL)
		  AND attendance_type_id IS NOT (
				SELECT a.attendance_type_id FROM attendances a
				WHERE a.employee_id = employees.id AND a.check_out IS NULL)`, ts)
	if err != nil {
		return fmt.Errorf("failed to recompute checked in employees: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		UPDATE employees SET attendance_type_id = ?, updated_at = ?
		WHERE NOT EXISTS (
				SELECT 1 FROM attendances a
				WHERE a.employee_id = employees.id AND a.check_out IS NULL)
		  AND attendance_type_id IS NOT ?`, absentTypeID, ts, absentTypeID)
	if err != nil {
		return fmt.Errorf("failed to recompute checked out employees: %w", err)
	}
	return nil
}
