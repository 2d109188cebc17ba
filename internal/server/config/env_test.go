package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("GOPHBLOG_HTTP_ADDR", ":9090")
	t.Setenv("GOPHBLOG_DATABASE_DSN", "")
	t.Setenv("GOPHBLOG_SECRET_KEY", "env-secret")
	t.Setenv("GOPHBLOG_ACCESS_TOKEN_TTL", "30s")
	t.Setenv("GOPHBLOG_BCRYPT_COST", "10")
	t.Setenv("GOPHBLOG_CORS_ORIGINS", "http://a.example, http://b.example,")
	t.Setenv("GOPHBLOG_ADMIN_PASSWORD", "root")
	t.Setenv("GOPHBLOG_S3_BUCKET", "")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Empty(t, cfg.DatabaseDSN, "explicitly empty DSN selects in-memory storage")
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 30*time.Second, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "root", cfg.AdminPassword)
	assert.Empty(t, cfg.S3Bucket, "explicitly empty bucket disables attachments")
	assert.Equal(t, ":50051", cfg.EndpointAddrGRPC, "unset variables keep defaults")
}

func Test_parseEnv_DotEnvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GOPHBLOG_S3_BUCKET=from-dotenv\nGOPHBLOG_LOG_LEVEL=error\n"), 0o600))
	t.Setenv("GOPHBLOG_LOG_LEVEL", "warn")
	t.Cleanup(func() { _ = os.Unsetenv("GOPHBLOG_S3_BUCKET") })

	os.Args = []string{"testbin", "-env-file", path}

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "from-dotenv", cfg.S3Bucket)
	assert.Equal(t, "warn", cfg.LogLevel, "process environment wins over the file")
}

func Test_parseEnv_Invalid(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("GOPHBLOG_ACCESS_TOKEN_TTL", "soon")
		require.Panics(t, func() { parseEnv(&Config{}) })
	})

	t.Run("bad int", func(t *testing.T) {
		t.Setenv("GOPHBLOG_HASH_WORKERS", "many")
		require.Panics(t, func() { parseEnv(&Config{}) })
	})

	t.Run("missing named file", func(t *testing.T) {
		os.Args = []string{"testbin", "-env-file", filepath.Join(t.TempDir(), "absent.env")}
		require.Panics(t, func() { parseEnv(&Config{}) })
	})
}
