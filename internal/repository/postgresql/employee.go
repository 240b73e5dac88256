package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/database"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/utils"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT e.id, e.name, e.attendance_type_id, e.created_at, e.updated_at, t.name
	FROM employees e
	LEFT JOIN attendance_types t ON t.id = e.attendance_type_id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(&e.ID, &e.Name, &e.AttendanceTypeID, &e.CreatedAt, &e.UpdatedAt, &e.AttendanceTypeName)
	return e, err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if e.ID == "" {
		e.ID = utils.NewID()
	}

	query := `
		INSERT INTO employees (id, name, attendance_type_id)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`
	if err := q.QueryRow(ctx, query, e.ID, e.Name, e.AttendanceTypeID).Scan(&e.CreatedAt, &e.UpdatedAt); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, employeeSelect+` ORDER BY e.name, e.id`)
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

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET name = $1, updated_at = NOW() WHERE id = $2`, e.Name, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// SetAttendanceType implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetAttendanceType(ctx context.Context, id string, attendanceTypeID *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET attendance_type_id = $1, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := q.Exec(ctx, query, attendanceTypeID, id)
	if err != nil {
		return fmt.Errorf("failed to set employee attendance type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// RecomputeAttendanceTypes implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) RecomputeAttendanceTypes(ctx context.Context, absentTypeID *string) error {
	q := GetQuerier(ctx, r.db)

	checkedIn := `
		UPDATE employees e
		SET attendance_type_id = a.attendance_type_id, updated_at = NOW()
		FROM attendances a
		WHERE a.employee_id = e.id
		  AND a.check_out IS NULL
		  AND e.attendance_type_id IS DISTINCT FROM a.attendance_type_id
	`
	if _, err := q.Exec(ctx, checkedIn); err != nil {
		return fmt.Errorf("failed to recompute checked in employees: %w", err)
	}

	checkedOut := `
		UPDATE employees e
		SET attendance_type_id = $1::uuid, updated_at = NOW()
		WHERE NOT EXISTS (
			SELECT 1 FROM attendances a WHERE a.employee_id = e.id AND a.check_out IS NULL
		)
		  AND e.attendance_type_id IS DISTINCT FROM $1::uuid
	`
	if _, err := q.Exec(ctx, checkedOut, absentTypeID); err != nil {
		return fmt.Errorf("failed to recompute checked out employees: %w", err)
	}
	return nil
}
