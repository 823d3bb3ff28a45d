package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_TIMEZONE", "UTC")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, "memory", cfg.Queue.Driver)
	assert.Equal(t, 4, cfg.Queue.Workers)
	assert.Equal(t, "23:59", cfg.Schedule.DailyMailsAt)
	assert.True(t, cfg.Schedule.Enabled)

	hour, minute, err := cfg.DailyMailsTime()
	require.NoError(t, err)
	assert.Equal(t, 23, hour)
	assert.Equal(t, 59, minute)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing jwt secret":  {"JWT_SECRET_KEY": ""},
		"postgres without pw": {"DB_DRIVER": "postgres", "DB_PASSWORD": ""},
		"unknown cache":       {"CACHE_DRIVER": "memcached"},
		"unknown queue":       {"QUEUE_DRIVER": "sqs"},
		"bad schedule":        {"SCHEDULE_DAILY_MAILS_AT": "25:99"},
		"bad timezone":        {"APP_TIMEZONE": "Mars/Olympus"},
		"bad port":            {"APP_PORT": "http"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		User:     "postgres",
		Password: "pw",
		Host:     "db",
		Port:     5432,
		Name:     "commission",
		SSLMode:  "disable",
	}}
	assert.Equal(t, "postgres://postgres:pw@db:5432/commission?sslmode=disable", cfg.DatabaseURL())
}
