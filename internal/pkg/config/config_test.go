package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: "9090"
database:
  host: db.internal
  user: hub
  dbname: hub
jwt:
  secret: 0123456789abcdef0123456789abcdef
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "")

	t.Run("file values and defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, sampleYAML))
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
		assert.Equal(t, 45*time.Second, cfg.Database.StatementTimeout)
		assert.Equal(t, 24*time.Hour, cfg.JWT.TTL())
		assert.Equal(t, "local", cfg.Upload.Backend)
		assert.Equal(t, "/uploads", cfg.Upload.URLPrefix)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("DB_HOST", "override.internal")
		t.Setenv("SERVER_PORT", "7070")

		cfg, err := Load(writeConfig(t, sampleYAML))
		require.NoError(t, err)
		assert.Equal(t, "override.internal", cfg.Database.Host)
		assert.Equal(t, "7070", cfg.Server.Port)
	})

	t.Run("short secret is rejected", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "short")

		_, err := Load(writeConfig(t, sampleYAML))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Host: "h", User: "u", DBName: "d"},
			JWT:      JWTConfig{Secret: "0123456789abcdef0123456789abcdef", Expire: 24},
			Upload:   UploadConfig{Backend: "local", Dir: "./uploads"},
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.JWT.Secret = placeholderSecret
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Upload.Backend = "oss"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Upload.Backend = "ftp"
	assert.Error(t, cfg.Validate())
}
