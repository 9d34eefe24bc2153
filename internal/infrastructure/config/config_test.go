package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pricecraft-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "pricecraft", cfg.Database.DBName)
	assert.Equal(t, "stub", cfg.Storage.Provider)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiration)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LockDuration)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15*time.Minute, cfg.Storage.UploadExpiry)
	assert.Equal(t, time.Hour, cfg.Storage.DownloadExpiry)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PRICECRAFT_APP_PORT", "9090")
	t.Setenv("PRICECRAFT_DATABASE_DRIVER", "sqlite")
	t.Setenv("PRICECRAFT_DATABASE_SQLITE_PATH", "/tmp/test.db")
	t.Setenv("PRICECRAFT_LOG_LEVEL", "debug")
	t.Setenv("PRICECRAFT_REDIS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.Database.SQLitePath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("PRICECRAFT_DATABASE_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Database.Driver = "postgres"
		cfg.Storage.Provider = "stub"
		return cfg
	}

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxOpenConns = 5
		cfg.Database.MaxIdleConns = 10
		assert.Error(t, cfg.validate())
	})

	t.Run("unknown storage provider", func(t *testing.T) {
		cfg := base()
		cfg.Storage.Provider = "ftp"
		assert.Error(t, cfg.validate())
	})

	t.Run("sampling ratio bounds", func(t *testing.T) {
		cfg := base()
		cfg.Telemetry.SamplingRatio = 1.5
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"

		cfg.JWT.Secret = ""
		assert.Error(t, cfg.validate())

		cfg.JWT.Secret = "short"
		assert.Error(t, cfg.validate())

		cfg.JWT.Secret = "a-secret-that-is-at-least-32-chars!!"
		assert.NoError(t, cfg.validate())
	})

	t.Run("production rejects sslmode disable", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "a-secret-that-is-at-least-32-chars!!"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "disable"
		assert.Error(t, cfg.validate())
	})

	t.Run("production rejects wildcard cors", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "a-secret-that-is-at-least-32-chars!!"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())
	})

	t.Run("production s3 requires a bucket", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "a-secret-that-is-at-least-32-chars!!"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.Storage.Provider = "s3"
		assert.Error(t, cfg.validate())

		cfg.Storage.Bucket = "pricecraft-images"
		assert.NoError(t, cfg.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "svc",
		Password: "p@ss/word",
		DBName:   "pricecraft",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
