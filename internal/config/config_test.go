package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 100, cfg.CodeMaxAttempts)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.SeedDemo)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", " Postgres ")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("CODE_MAX_ATTEMPTS", "7")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 7, cfg.CodeMaxAttempts)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Contains(t, cfg.PostgresDSN(), "host=db.internal")
	assert.Contains(t, cfg.PostgresDSN(), "sslmode=disable")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "DB_DRIVER", "mysql"},
		{"zero attempts", "CODE_MAX_ATTEMPTS", "0"},
		{"tiny qr", "QR_SIZE", "10"},
		{"non numeric attempts", "CODE_MAX_ATTEMPTS", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("testdata/does-not-exist.env")
			assert.Error(t, err)
		})
	}
}
