package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/database"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestDatabase connects to TEST_DATABASE_URL, applies the schema and
// empties every table. The test is skipped when the variable is unset.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)

	ctx := context.Background()
	require.NoError(t, postgresql.Migrate(ctx, db))
	require.NoError(t, truncateAllTables(ctx, db))
	return db
}

func truncateAllTables(ctx context.Context, db *database.DB) error {
	_, err := db.Exec(ctx, `TRUNCATE TABLE attendances, refresh_tokens, users, employees, attendance_types CASCADE`)
	return err
}
