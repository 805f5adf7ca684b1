package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"YOKLAMA_APP_NAME":                   os.Getenv("YOKLAMA_APP_NAME"),
		"YOKLAMA_APP_ENV":                    os.Getenv("YOKLAMA_APP_ENV"),
		"YOKLAMA_APP_PORT":                   os.Getenv("YOKLAMA_APP_PORT"),
		"YOKLAMA_DATABASE_HOST":              os.Getenv("YOKLAMA_DATABASE_HOST"),
		"YOKLAMA_DATABASE_PORT":              os.Getenv("YOKLAMA_DATABASE_PORT"),
		"YOKLAMA_DATABASE_PASSWORD":          os.Getenv("YOKLAMA_DATABASE_PASSWORD"),
		"YOKLAMA_DATABASE_SSLMODE":           os.Getenv("YOKLAMA_DATABASE_SSLMODE"),
		"YOKLAMA_DATABASE_MAX_OPEN_CONNS":    os.Getenv("YOKLAMA_DATABASE_MAX_OPEN_CONNS"),
		"YOKLAMA_DATABASE_MAX_IDLE_CONNS":    os.Getenv("YOKLAMA_DATABASE_MAX_IDLE_CONNS"),
		"YOKLAMA_TELEGRAM_TOKEN":             os.Getenv("YOKLAMA_TELEGRAM_TOKEN"),
		"YOKLAMA_CRYPTO_SECRET":              os.Getenv("YOKLAMA_CRYPTO_SECRET"),
		"YOKLAMA_OBIS_BASE_URL":              os.Getenv("YOKLAMA_OBIS_BASE_URL"),
		"YOKLAMA_MONITOR_ATTENDANCE_INTERVAL": os.Getenv("YOKLAMA_MONITOR_ATTENDANCE_INTERVAL"),
		"YOKLAMA_MONITOR_GRADE_INTERVAL":     os.Getenv("YOKLAMA_MONITOR_GRADE_INTERVAL"),
		"YOKLAMA_MONITOR_SEND_DELAY":         os.Getenv("YOKLAMA_MONITOR_SEND_DELAY"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "yoklama-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "yoklama", cfg.Database.DBName)
		assert.Equal(t, "https://obistest.manas.edu.kg", cfg.Obis.BaseURL)
		assert.Equal(t, "Yoklama parser", cfg.Obis.UserAgent)
		assert.Equal(t, 30*time.Second, cfg.Obis.Timeout)
		assert.Equal(t, 5*time.Minute, cfg.Monitor.AttendanceInterval)
		assert.Equal(t, 30*time.Minute, cfg.Monitor.GradeInterval)
		assert.Equal(t, 500*time.Millisecond, cfg.Monitor.SendDelay)
	})

	t.Run("loads values from environment variables with YOKLAMA prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("YOKLAMA_APP_PORT", "9000")
		os.Setenv("YOKLAMA_DATABASE_HOST", "testdb.local")
		os.Setenv("YOKLAMA_DATABASE_PASSWORD", "testpass")
		os.Setenv("YOKLAMA_OBIS_BASE_URL", "http://localhost:8081")
		os.Setenv("YOKLAMA_MONITOR_ATTENDANCE_INTERVAL", "1m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "http://localhost:8081", cfg.Obis.BaseURL)
		assert.Equal(t, time.Minute, cfg.Monitor.AttendanceInterval)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("YOKLAMA_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("YOKLAMA_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("production requires bot token and crypto secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("YOKLAMA_APP_ENV", "production")
		os.Setenv("YOKLAMA_DATABASE_PASSWORD", "prodpass")
		os.Setenv("YOKLAMA_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telegram.token")

		os.Setenv("YOKLAMA_TELEGRAM_TOKEN", "123:abc")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "crypto.secret")

		os.Setenv("YOKLAMA_CRYPTO_SECRET", "0123456789abcdef0123456789abcdef")
		_, err = Load()
		require.NoError(t, err)
	})

	t.Run("production rejects disabled ssl", func(t *testing.T) {
		clearEnv()
		os.Setenv("YOKLAMA_APP_ENV", "production")
		os.Setenv("YOKLAMA_TELEGRAM_TOKEN", "123:abc")
		os.Setenv("YOKLAMA_CRYPTO_SECRET", "0123456789abcdef0123456789abcdef")
		os.Setenv("YOKLAMA_DATABASE_PASSWORD", "prodpass")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "yoklama",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "/yoklama")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
