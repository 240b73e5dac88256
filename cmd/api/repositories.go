package main

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/config"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/attendance_type"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/auth"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/employee"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/database"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/repository/postgresql"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/repository/sqlite"
)

// repositories are the storage backends selected by DB_DRIVER.
type repositories struct {
	tx            database.Transactor
	users         user.UserRepository
	employees     employee.EmployeeRepository
	attendances   attendance.AttendanceRepository
	types         attendance_type.AttendanceTypeRepository
	refreshTokens auth.RefreshTokenRepository
	close         func()
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.Database.SQLitePath)
		if err != nil {
			return repositories{}, err
		}
		return repositories{
			tx:            store,
			users:         sqlite.NewUserRepository(store),
			employees:     sqlite.NewEmployeeRepository(store),
			attendances:   sqlite.NewAttendanceRepository(store),
			types:         sqlite.NewAttendanceTypeRepository(store),
			refreshTokens: sqlite.NewRefreshTokenRepository(store),
			close:         func() { store.Close() },
		}, nil

	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return repositories{}, err
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return repositories{}, err
		}
		return repositories{
			tx:            postgresql.NewTransactor(db),
			users:         postgresql.NewUserRepository(db),
			employees:     postgresql.NewEmployeeRepository(db),
			attendances:   postgresql.NewAttendanceRepository(db),
			types:         postgresql.NewAttendanceTypeRepository(db),
			refreshTokens: postgresql.NewJWTRepository(db),
			close:         db.Close,
		}, nil
	}
	return repositories{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
}
