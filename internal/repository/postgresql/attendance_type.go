package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance_type"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/database"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/utils"
	"github.com/jackc/pgx/v5"
)

type attendanceTypeRepository struct {
	db *database.DB
}

func NewAttendanceTypeRepository(db *database.DB) attendance_type.AttendanceTypeRepository {
	return &attendanceTypeRepository{db: db}
}

const attendanceTypeColumns = `id, name, sequence, absent, created_at, updated_at`

func scanAttendanceType(row pgx.Row) (attendance_type.AttendanceType, error) {
	var t attendance_type.AttendanceType
	err := row.Scan(&t.ID, &t.Name, &t.Sequence, &t.Absent, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create implements attendance_type.AttendanceTypeRepository.
func (r *attendanceTypeRepository) Create(ctx context.Context, t attendance_type.AttendanceType) (attendance_type.AttendanceType, error) {
	q := GetQuerier(ctx, r.db)

	if t.ID == "" {
		t.ID = utils.NewID()
	}

	query := `
		INSERT INTO attendance_types (id, name, sequence, absent)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	if err := q.QueryRow(ctx, query, t.ID, t.Name, t.Sequence, t.Absent).Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return attendance_type.AttendanceType{}, fmt.Errorf("failed to create attendance type: %w", err)
	}
	return t, nil
}

// GetByID implements attendance_type.AttendanceTypeRepository.
func (r *attendanceTypeRepository) GetByID(ctx context.Context, id string) (attendance_type.AttendanceType, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceTypeColumns + ` FROM attendance_types WHERE id = $1`
	t, err := scanAttendanceType(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance_type.AttendanceType{}, attendance_type.ErrAttendanceTypeNotFound
		}
		return attendance_type.AttendanceType{}, fmt.Errorf("failed to get attendance type: %w", err)
	}
	return t, nil
}

// List implements attendance_type.AttendanceTypeRepository.
func (r *attendanceTypeRepository) List(ctx context.Context) ([]attendance_type.AttendanceType, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+attendanceTypeColumns+` FROM attendance_types ORDER BY sequence, id`)
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

// GetAbsent implements attendance_type.AttendanceTypeRepository.
func (r *attendanceTypeRepository) GetAbsent(ctx context.Context) (attendance_type.AttendanceType, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceTypeColumns + ` FROM attendance_types WHERE absent ORDER BY sequence, id LIMIT 1`
	t, err := scanAttendanceType(q.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance_type.AttendanceType{}, attendance_type.ErrNoAbsentType
		}
		return attendance_type.AttendanceType{}, fmt.Errorf("failed to get absent attendance type: %w", err)
	}
	return t, nil
}

// Update implements attendance_type.AttendanceTypeRepository.
func (r *attendanceTypeRepository) Update(ctx context.Context, t attendance_type.AttendanceType) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_types
		SET name = $1, sequence = $2, absent = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := q.Exec(ctx, query, t.Name, t.Sequence, t.Absent, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance_type.ErrAttendanceTypeNotFound
	}
	return nil
}

// ClearAbsentExcept implements attendance_type.AttendanceTypeRepository.
func (r *attendanceTypeRepository) ClearAbsentExcept(ctx context.Context, keepID string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE attendance_types SET absent = FALSE, updated_at = NOW() WHERE absent AND id <> $1`
	if _, err := q.Exec(ctx, query, keepID); err != nil {
		return fmt.Errorf("failed to clear absent flag: %w", err)
	}
	return nil
}

// Delete implements attendance_type.AttendanceTypeRepository.
func (r *attendanceTypeRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance_type.ErrAttendanceTypeNotFound
	}
	return nil
}

// Count implements attendance_type.AttendanceTypeRepository.
func (r *attendanceTypeRepository) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendance_types`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance types: %w", err)
	}
	return count, nil
}
