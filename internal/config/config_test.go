package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for k, v := range values {
		t.Setenv(k, v)
	}
}

func TestLoad_SQLite(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_DRIVER":                 "SQLite",
		"SQLITE_PATH":               "/tmp/attendance.db",
		"JWT_SECRET_KEY":            "secret",
		"CORS_ALLOWED_ORIGINS":      "http://a.example, http://b.example",
		"CRON_CONSISTENCY_INTERVAL": "15m",
		"LOG_LEVEL":                 "debug",
	})

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/attendance.db", cfg.Database.SQLitePath)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.App.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.Cron.ConsistencyInterval)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "1h", cfg.JWT.AccessExpiration)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad port", env: map[string]string{"APP_PORT": "http"}},
		{name: "bad interval", env: map[string]string{"CRON_CONSISTENCY_INTERVAL": "often"}},
		{name: "missing secret", env: map[string]string{"JWT_SECRET_KEY": ""}},
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "mysql"}},
		{name: "postgres without password", env: map[string]string{"DB_DRIVER": "postgres", "DB_PASSWORD": ""}},
		{name: "admin email only", env: map[string]string{"ADMIN_EMAIL": "admin@example.com"}},
		{name: "bad token lifetime", env: map[string]string{"JWT_ACCESS_EXPIRATION_TIME": "forever"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, map[string]string{"DB_DRIVER": "sqlite", "JWT_SECRET_KEY": "secret"})
			setEnv(t, tt.env)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConfig_DatabaseURL(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5433, Name: "n", SSLMode: "require"}}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=require", cfg.DatabaseURL())
}
