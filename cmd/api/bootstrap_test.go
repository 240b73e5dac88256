package main

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/config"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBootstrapAdmin(t *testing.T) {
	env := servicetest.NewEnv(t)
	ctx := context.Background()
	admin := config.AdminConfig{Email: " Admin@Example.com", Password: "s3cret-pass"}

	require.NoError(t, bootstrapAdmin(ctx, env.Users, admin))
	require.NoError(t, bootstrapAdmin(ctx, env.Users, admin))

	u, err := env.Users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, u.Role)
	assert.Nil(t, u.EmployeeID)
	require.NotNil(t, u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte("s3cret-pass")))
}

func TestBootstrapAdmin_Disabled(t *testing.T) {
	env := servicetest.NewEnv(t)

	require.NoError(t, bootstrapAdmin(context.Background(), env.Users, config.AdminConfig{}))
	exists, err := env.Users.ExistsByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOpenRepositories_SQLite(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: t.TempDir() + "/attendance.db"}}

	repos, err := openRepositories(context.Background(), cfg)
	require.NoError(t, err)
	defer repos.close()

	count, err := repos.types.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = openRepositories(context.Background(), &config.Config{Database: config.DatabaseConfig{Driver: "mysql"}})
	assert.Error(t, err)
}
