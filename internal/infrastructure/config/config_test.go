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
		"INVOICE_APP_NAME":          os.Getenv("INVOICE_APP_NAME"),
		"INVOICE_APP_ENV":           os.Getenv("INVOICE_APP_ENV"),
		"INVOICE_APP_PORT":          os.Getenv("INVOICE_APP_PORT"),
		"INVOICE_DATABASE_HOST":     os.Getenv("INVOICE_DATABASE_HOST"),
		"INVOICE_DATABASE_PORT":     os.Getenv("INVOICE_DATABASE_PORT"),
		"INVOICE_DATABASE_PASSWORD": os.Getenv("INVOICE_DATABASE_PASSWORD"),
		"INVOICE_PDF_NO_SANDBOX":    os.Getenv("INVOICE_PDF_NO_SANDBOX"),
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

		assert.Equal(t, "invoicegen-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "invoicegen", cfg.Database.DBName)
		assert.Equal(t, 30*time.Second, cfg.PDF.RenderTimeout)
		assert.Equal(t, 10.0, cfg.PDF.MarginMM)
		assert.Equal(t, "/data/invoices", cfg.Storage.BasePath)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_APP_PORT", "9090")
		os.Setenv("INVOICE_DATABASE_HOST", "db.internal")
		os.Setenv("INVOICE_PDF_NO_SANDBOX", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.True(t, cfg.PDF.NoSandbox)
	})

	t.Run("production requires database password", func(t *testing.T) {
		clearEnv()
		os.Setenv("INVOICE_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required")
	})
}

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("rejects idle conns exceeding open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = 50
		cfg.Database.MaxOpenConns = 10
		assert.ErrorContains(t, cfg.validate(), "cannot exceed")
	})

	t.Run("rejects sub-second render timeout", func(t *testing.T) {
		cfg := base()
		cfg.PDF.RenderTimeout = 100 * time.Millisecond
		assert.ErrorContains(t, cfg.validate(), "render_timeout")
	})

	t.Run("rejects wildcard CORS origin in production", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.ErrorContains(t, cfg.validate(), "cors_allow_origins")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "invoicegen",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
