package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/utils"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepository{store: store}
}

const attendanceSelect = `
	SELECT
		a.id, a.employee_id, a.check_in, a.check_out, a.attendance_type_id, a.comment,
		a.break_start_time, a.last_break_end, a.break_seconds, a.worked_seconds,
		a.created_at, a.updated_at,
		e.name, t.name
	FROM attendances a
	LEFT JOIN employees e ON e.id = a.employee_id
	LEFT JOIN attendance_types t ON t.id = a.attendance_type_id`

func scanAttendance(row scanner) (attendance.Attendance, error) {
	var (
		att                  attendance.Attendance
		checkIn              string
		checkOut, breakStart sql.NullString
		lastBreakEnd         sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&att.ID, &att.EmployeeID, &checkIn, &checkOut, &att.AttendanceTypeID, &att.Comment,
		&breakStart, &lastBreakEnd, &att.BreakSeconds, &att.WorkedSeconds,
		&createdAt, &updatedAt,
		&att.EmployeeName, &att.AttendanceTypeName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if att.CheckIn, err = parseTime(checkIn); err != nil {
		return attendance.Attendance{}, err
	}
	if att.CheckOut, err = parseNullTime(checkOut); err != nil {
		return attendance.Attendance{}, err
	}
	if att.BreakStartTime, err = parseNullTime(breakStart); err != nil {
		return attendance.Attendance{}, err
	}
	if att.LastBreakEnd, err = parseNullTime(lastBreakEnd); err != nil {
		return attendance.Attendance{}, err
	}
	if att.CreatedAt, err = parseTime(createdAt); err != nil {
		return attendance.Attendance{}, err
	}
	if att.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return attendance.Attendance{}, err
	}
	return att, nil
}

func (r *attendanceRepository) queryAttendances(ctx context.Context, query string, args ...any) ([]attendance.Attendance, error) {
	rows, err := r.store.getQuerier(ctx).QueryContext(ctx, query, args...)
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

func (r *attendanceRepository) queryOne(ctx context.Context, query string, args ...any) (attendance.Attendance, error) {
	att, err := scanAttendance(r.store.getQuerier(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if att.ID == "" {
		att.ID = utils.NewID()
	}
	ts := now()

	_, err := r.store.getQuerier(ctx).ExecContext(ctx, `
		INSERT INTO attendances (
			id, employee_id, check_in, check_out, attendance_type_id, comment,
			break_start_time, last_break_end, break_seconds, worked_seconds, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		att.ID, att.EmployeeID, formatTime(att.CheckIn), formatTimePtr(att.CheckOut),
		att.AttendanceTypeID, att.Comment, formatTimePtr(att.BreakStartTime),
		formatTimePtr(att.LastBreakEnd), att.BreakSeconds, att.WorkedSeconds, ts, ts,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	att.CreatedAt, _ = parseTime(ts)
	att.UpdatedAt = att.CreatedAt
	return att, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.queryOne(ctx, attendanceSelect+` WHERE a.id = ?`, id)
}

func (r *attendanceRepository) GetOpen(ctx context.Context, employeeID string) (attendance.Attendance, error) {
	return r.queryOne(ctx, attendanceSelect+`
		WHERE a.employee_id = ? AND a.check_out IS NULL
		ORDER BY a.check_in DESC LIMIT 1`, employeeID)
}

func (r *attendanceRepository) GetLatest(ctx context.Context, employeeID string) (attendance.Attendance, error) {
	return r.queryOne(ctx, attendanceSelect+`
		WHERE a.employee_id = ?
		ORDER BY a.check_in DESC LIMIT 1`, employeeID)
}

func (r *attendanceRepository) ListLatest(ctx context.Context) ([]attendance.Attendance, error) {
	return r.queryAttendances(ctx, attendanceSelect+`
		WHERE a.check_in = (
			SELECT MAX(b.check_in) FROM attendances b WHERE b.employee_id = a.employee_id
		)`)
}

func (r *attendanceRepository) ListOverlapping(ctx context.Context, employeeID string, checkIn time.Time, checkOut *time.Time, excludeID string) ([]attendance.Attendance, error) {
	in := formatTime(checkIn)
	out := formatTimePtr(checkOut)
	return r.queryAttendances(ctx, attendanceSelect+`
		WHERE a.employee_id = ?
		  AND a.id <> ?
		  AND (
			a.check_in = ?
			OR ((a.check_out IS NULL OR a.check_out > ?) AND (? IS NULL OR a.check_in < ?))
		  )
		ORDER BY a.check_in`,
		employeeID, excludeID, in, in, out, out)
}

func (r *attendanceRepository) CountByAttendanceType(ctx context.Context, attendanceTypeID string) (int64, error) {
	var count int64
	err := r.store.getQuerier(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendances WHERE attendance_type_id = ?`, attendanceTypeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count attendances by type: %w", err)
	}
	return count, nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	var (
		where []string
		args  []any
	)

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where = append(where, "a.employee_id = ?")
		args = append(args, *filter.EmployeeID)
	}
	if filter.Open != nil {
		if *filter.Open {
			where = append(where, "a.check_out IS NULL")
		} else {
			where = append(where, "a.check_out IS NOT NULL")
		}
	}
	if filter.StartAt != nil {
		where = append(where, "a.check_in >= ?")
		args = append(args, formatTime(*filter.StartAt))
	}
	if filter.EndAt != nil {
		where = append(where, "a.check_in < ?")
		args = append(args, formatTime(*filter.EndAt))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.store.getQuerier(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendances a`+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	orderBy := "a.check_in"
	if filter.SortBy == "check_out" {
		orderBy = "a.check_out"
	}
	// SQLite sorts NULL first ascending; open records lead a descending list.
	order := fmt.Sprintf("%s IS NOT NULL, %s DESC", orderBy, orderBy)
	if strings.ToLower(filter.SortOrder) == "asc" {
		order = fmt.Sprintf("%s IS NULL, %s ASC", orderBy, orderBy)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	attendances, err := r.queryAttendances(ctx,
		attendanceSelect+whereSQL+" ORDER BY "+order+", a.id LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return attendances, total, nil
}

func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	res, err := r.store.getQuerier(ctx).ExecContext(ctx, `
		UPDATE attendances
		SET check_in = ?, check_out = ?, attendance_type_id = ?, comment = ?,
			break_start_time = ?, last_break_end = ?, break_seconds = ?, worked_seconds = ?, updated_at = ?
		WHERE id = ?`,
		formatTime(att.CheckIn), formatTimePtr(att.CheckOut), att.AttendanceTypeID, att.Comment,
		formatTimePtr(att.BreakStartTime), formatTimePtr(att.LastBreakEnd), att.BreakSeconds, att.WorkedSeconds, now(), att.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	return requireAffected(res, attendance.ErrAttendanceNotFound)
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.store.getQuerier(ctx).ExecContext(ctx, `DELETE FROM attendances WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return requireAffected(res, attendance.ErrAttendanceNotFound)
}
