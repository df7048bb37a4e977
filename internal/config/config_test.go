package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	raw := `
[server]
http_port = 8083
shutdown_timeout = 10

[database]
host = "localhost"
port = 5432
user = "booking_service"
password = "secret"
dbname = "dmp_bookings"
sslmode = "disable"

[metrics]
enabled = true
path = "/metrics"
service_name = "dmp-booking-service"

[scheduler]
enabled = true
interval = 3600
`
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8083, cfg.Server.HTTPPort)
	assert.Equal(t, "dmp_bookings", cfg.Database.DBName)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 3600, cfg.Scheduler.Interval)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")

	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "booking_service",
		Password: "secret",
		DBName:   "dmp_bookings",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=booking_service password=secret dbname=dmp_bookings sslmode=disable",
		db.DSN())
}
