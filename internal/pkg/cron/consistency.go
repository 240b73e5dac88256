package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
)

// AbsentRepairer restores the single absent attendance type.
type AbsentRepairer interface {
	RepairAbsent(ctx context.Context) error
}

// ConsistencyJobs keep attendance types and the employee lane cache
// consistent with the attendance records.
type ConsistencyJobs struct {
	types AbsentRepairer
	cache employee.AttendanceTypeCache
}

func NewConsistencyJobs(types AbsentRepairer, cache employee.AttendanceTypeCache) *ConsistencyJobs {
	return &ConsistencyJobs{
		types: types,
		cache: cache,
	}
}

// RegisterJobs adds the jobs in the order they must run: the lane cache
// depends on the absent type.
func (j *ConsistencyJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("repair_absent_attendance_type", interval, j.RepairAbsentType)
	scheduler.AddJob("recompute_employee_attendance_types", interval, j.RecomputeEmployeeAttendanceTypes)
}

func (j *ConsistencyJobs) RepairAbsentType(ctx context.Context) error {
	if err := j.types.RepairAbsent(ctx); err != nil {
		return fmt.Errorf("failed to repair absent attendance type: %w", err)
	}
	return nil
}

func (j *ConsistencyJobs) RecomputeEmployeeAttendanceTypes(ctx context.Context) error {
	start := time.Now()
	if err := j.cache.RecomputeAll(ctx); err != nil {
		return fmt.Errorf("failed to recompute employee attendance types: %w", err)
	}
	slog.Info("Cron: employee attendance types recomputed", "duration", time.Since(start))
	return nil
}
