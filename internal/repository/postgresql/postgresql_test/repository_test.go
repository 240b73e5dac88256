package postgresql_test

import (
	"testing"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/repository/postgresql"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/repository/repotest"
)

func TestRepositories(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repotest.Repos {
		db := newTestDatabase(t)
		return repotest.Repos{
			Tx:            postgresql.NewTransactor(db),
			Users:         postgresql.NewUserRepository(db),
			Employees:     postgresql.NewEmployeeRepository(db),
			Attendances:   postgresql.NewAttendanceRepository(db),
			Types:         postgresql.NewAttendanceTypeRepository(db),
			RefreshTokens: postgresql.NewJWTRepository(db),
		}
	})
}
