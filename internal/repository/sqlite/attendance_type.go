package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance_type"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/utils"
)

type attendanceTypeRepository struct {
	store *Store
}

func NewAttendanceTypeRepository(store *Store) attendance_type.AttendanceTypeRepository {
	return &attendanceTypeRepository{store: store}
}

const attendanceTypeSelect = `SELECT id, name, sequence, absent, created_at, updated_at FROM attendance_types`

func scanAttendanceType(row scanner) (attendance_type.AttendanceType, error) {
	var (
		t                    attendance_type.AttendanceType
		createdAt, updatedAt string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Sequence, &t.Absent, &createdAt, &updatedAt); err != nil {
		return attendance_type.AttendanceType{}, err
	}
	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return attendance_type.AttendanceType{}, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return attendance_type.AttendanceType{}, err
	}
	return t, nil
}

func (r *attendanceTypeRepository) Create(ctx context.Context, t attendance_type.AttendanceType) (attendance_type.AttendanceType, error) {
	if t.ID == "" {
		t.ID = utils.NewID()
	}
	ts := now()

	_, err := r.store.getQuerier(ctx).ExecContext(ctx, `
		INSERT INTO attendance_types (id, name, sequence, absent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Sequence, t.Absent, ts, ts,
	)
	if err != nil {
		return attendance_type.AttendanceType{}, fmt.Errorf("failed to create attendance type: %w", err)
	}

	t.CreatedAt, _ = parseTime(ts)
	t.UpdatedAt = t.CreatedAt
	return t, nil
}

func (r *attendanceTypeRepository) GetByID(ctx context.Context, id string) (attendance_type.AttendanceType, error) {
	t, err := scanAttendanceType(r.store.getQuerier(ctx).QueryRowContext(ctx, attendanceTypeSelect+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance_type.AttendanceType{}, attendance_type.ErrAttendanceTypeNotFound
		}
		return attendance_type.AttendanceType{}, fmt.Errorf("failed to get attendance type: %w", err)
	}
	return t, nil
}

func (r *attendanceTypeRepository) List(ctx context.Context) ([]attendance_type.AttendanceType, error) {
	rows, err := r.store.getQuerier(ctx).QueryContext(ctx, attendanceTypeSelect+` ORDER BY sequence, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance types: %w", err)
	}
	defer rows.Close()

	var types []attendance_type.AttendanceType
	for rows.Next() {
		t, err := scanAttendanceType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *attendanceTypeRepository) GetAbsent(ctx context.Context) (attendance_type.AttendanceType, error) {
	t, err := scanAttendanceType(r.store.getQuerier(ctx).QueryRowContext(ctx,
		attendanceTypeSelect+` WHERE absent = 1 ORDER BY sequence, id LIMIT 1`))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance_type.AttendanceType{}, attendance_type.ErrNoAbsentType
		}
		return attendance_type.AttendanceType{}, fmt.Errorf("failed to get absent attendance type: %w", err)
	}
	return t, nil
}

func (r *attendanceTypeRepository) Update(ctx context.Context, t attendance_type.AttendanceType) error {
	res, err := r.store.getQuerier(ctx).ExecContext(ctx, `
		UPDATE attendance_types SET name = ?, sequence = ?, absent = ?, updated_at = ?
		WHERE id = ?`, t.Name, t.Sequence, t.Absent, now(), t.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance type: %w", err)
	}
	return requireAffected(res, attendance_type.ErrAttendanceTypeNotFound)
}

func (r *attendanceTypeRepository) ClearAbsentExcept(ctx context.Context, keepID string) error {
	_, err := r.store.getQuerier(ctx).ExecContext(ctx, `
		UPDATE attendance_types SET absent = 0, updated_at = ?
		WHERE absent = 1 AND id <> ?`, now(), keepID)
	if err != nil {
		return fmt.Errorf("failed to clear absent flag: %w", err)
	}
	return nil
}

func (r *attendanceTypeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.store.getQuerier(ctx).ExecContext(ctx, `DELETE FROM attendance_types WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance type: %w", err)
	}
	return requireAffected(res, attendance_type.ErrAttendanceTypeNotFound)
}

func (r *attendanceTypeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.store.getQuerier(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance_types`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance types: %w", err)
	}
	return count, nil
}

// requireAffected returns notFound when the statement changed no row.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
