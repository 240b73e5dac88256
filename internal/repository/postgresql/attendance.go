package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/database"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/utils"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceSelect = `
	SELECT
		a.id, a.employee_id, a.check_in, a.check_out, a.attendance_type_id, a.comment,
		a.break_start_time, a.last_break_end, a.break_seconds, a.worked_seconds,
		a.created_at, a.updated_at,
		e.name AS employee_name,
		t.name AS attendance_type_name
	FROM attendances a
	LEFT JOIN employees e ON e.id = a.employee_id
	LEFT JOIN attendance_types t ON t.id = a.attendance_type_id
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.CheckIn, &att.CheckOut, &att.AttendanceTypeID, &att.Comment,
		&att.BreakStartTime, &att.LastBreakEnd, &att.BreakSeconds, &att.WorkedSeconds,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName, &att.AttendanceTypeName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	normalizeTimes(&att)
	return att, nil
}

func normalizeTimes(att *attendance.Attendance) {
	att.CheckIn = att.CheckIn.UTC()
	if att.CheckOut != nil {
		t := att.CheckOut.UTC()
		att.CheckOut = &t
	}
	if att.BreakStartTime != nil {
		t := att.BreakStartTime.UTC()
		att.BreakStartTime = &t
	}
	if att.LastBreakEnd != nil {
		t := att.LastBreakEnd.UTC()
		att.LastBreakEnd = &t
	}
}

func (a *attendanceRepository) queryAttendances(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	return attendances, rows.Err()
}

func (a *attendanceRepository) queryOne(ctx context.Context, query string, args ...interface{}) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if newAttendance.ID == "" {
		newAttendance.ID = utils.NewID()
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, check_in, check_out, attendance_type_id, comment,
			break_start_time, last_break_end, break_seconds, worked_seconds
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.EmployeeID,
		newAttendance.CheckIn,
		newAttendance.CheckOut,
		newAttendance.AttendanceTypeID,
		newAttendance.Comment,
		newAttendance.BreakStartTime,
		newAttendance.LastBreakEnd,
		newAttendance.BreakSeconds,
		newAttendance.WorkedSeconds,
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return a.queryOne(ctx, attendanceSelect+` WHERE a.id = $1`, id)
}

// GetOpen implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOpen(ctx context.Context, employeeID string) (attendance.Attendance, error) {
	return a.queryOne(ctx, attendanceSelect+`
		WHERE a.employee_id = $1 AND a.check_out IS NULL
		ORDER BY a.check_in DESC
		LIMIT 1
	`, employeeID)
}

// GetLatest implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetLatest(ctx context.Context, employeeID string) (attendance.Attendance, error) {
	return a.queryOne(ctx, attendanceSelect+`
		WHERE a.employee_id = $1
		ORDER BY a.check_in DESC
		LIMIT 1
	`, employeeID)
}

// ListLatest implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListLatest(ctx context.Context) ([]attendance.Attendance, error) {
	return a.queryAttendances(ctx, attendanceSelect+`
		WHERE a.check_in = (
			SELECT MAX(b.check_in) FROM attendances b WHERE b.employee_id = a.employee_id
		)
	`)
}

// ListOverlapping implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOverlapping(ctx context.Context, employeeID string, checkIn time.Time, checkOut *time.Time, excludeID string) ([]attendance.Attendance, error) {
	return a.queryAttendances(ctx, attendanceSelect+`
		WHERE a.employee_id = $1
		  AND a.id::text <> $4
		  AND (
			a.check_in = $2
			OR ((a.check_out IS NULL OR a.check_out > $2)
				AND ($3::timestamptz IS NULL OR a.check_in < $3))
		  )
		ORDER BY a.check_in
	`, employeeID, checkIn, checkOut, excludeID)
}

// CountByAttendanceType implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountByAttendanceType(ctx context.Context, attendanceTypeID string) (int64, error) {
	q := GetQuerier(ctx, a.db)

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances WHERE attendance_type_id = $1`, attendanceTypeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count attendances by type: %w", err)
	}
	return count, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	// Employee ID filter
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	// Open filter
	if filter.Open != nil {
		if *filter.Open {
			baseWhere += " AND a.check_out IS NULL"
		} else {
			baseWhere += " AND a.check_out IS NOT NULL"
		}
	}

	// Date range filters
	if filter.StartAt != nil {
		baseWhere += fmt.Sprintf(" AND a.check_in >= $%d", argIdx)
		args = append(args, *filter.StartAt)
		argIdx++
	}
	if filter.EndAt != nil {
		baseWhere += fmt.Sprintf(" AND a.check_in < $%d", argIdx)
		args = append(args, *filter.EndAt)
		argIdx++
	}

	// Count total
	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances a WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Build ORDER BY
	orderByField := "a.check_in"
	if filter.SortBy == "check_out" {
		orderByField = "a.check_out"
	}
	sortOrder := "DESC NULLS FIRST"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC NULLS LAST"
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	selectQuery := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY %s %s, a.id
		LIMIT $%d OFFSET $%d
	`, attendanceSelect, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	attendances, err := a.queryAttendances(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	return attendances, total, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in = $1,
			check_out = $2,
			attendance_type_id = $3,
			comment = $4,
			break_start_time = $5,
			last_break_end = $6,
			break_seconds = $7,
			worked_seconds = $8,
			updated_at = NOW()
		WHERE id = $9
	`

	tag, err := q.Exec(ctx, query,
		att.CheckIn,
		att.CheckOut,
		att.AttendanceTypeID,
		att.Comment,
		att.BreakStartTime,
		att.LastBreakEnd,
		att.BreakSeconds,
		att.WorkedSeconds,
		att.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
