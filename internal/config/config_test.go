package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "PORT", "DB_DRIVER", "DB_DSN", "TOKEN_TTL", "MAX_UPLOAD_BYTES", "WS_MALFORMED_FRAME_POLICY")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8000", cfg.Port)
	require.Equal(t, DriverPostgres, cfg.DBDriver)
	require.Equal(t, defaultPostgresDSN, cfg.DBDSN)
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)
	require.Equal(t, int64(100*1024*1024), cfg.MaxUploadBytes)
	require.Equal(t, MalformedFrameDrop, cfg.MalformedFramePolicy)
}

func TestLoadSQLite(t *testing.T) {
	unsetenv(t, "DB_DSN")
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("WS_MALFORMED_FRAME_POLICY", MalformedFrameClose)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "course.db", cfg.DBDSN)
	require.Equal(t, 2*time.Hour, cfg.TokenTTL)
	require.Equal(t, MalformedFrameClose, cfg.MalformedFramePolicy)
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("WS_MALFORMED_FRAME_POLICY", "ignore")
	_, err = Load()
	require.Error(t, err)
}
