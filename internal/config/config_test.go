package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[storage]
driver = "memory"

[scheduling]
default_timezone = "Europe/London"
max_recurrence_days = 30
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "Europe/London", cfg.Scheduling.DefaultTimezone)
	assert.Equal(t, 30, cfg.Scheduling.MaxRecurrenceDays)
	// не указанные в файле значения остаются по умолчанию
	assert.Equal(t, 60, cfg.Scheduling.MaxSlotDuration)
	assert.Equal(t, LockerDriverLocal, cfg.Locker.Driver)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db.internal"
`)
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Database.Host)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, LockerDriverRedis, cfg.Locker.Driver)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Locker.RedisURL)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown storage driver", body: "[storage]\ndriver = \"mongo\"\n"},
		{name: "redis locker without url", body: "[locker]\ndriver = \"redis\"\n"},
		{name: "inverted slot bounds", body: "[scheduling]\nmin_slot_duration = 90\nmax_slot_duration = 60\n"},
		{name: "webhook missing", body: "[notifications]\nenabled = true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := Default().Database
	d.Password = "secret"
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=availability sslmode=disable",
		d.DSN())
}
