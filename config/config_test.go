package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("STORE_DRIVER", "")

	cfg := Load()
	assert.Equal(t, "go-postboard", cfg.AppName)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, time.Duration(0), cfg.TokenTTL)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("POST_CACHE_TTL", "soon")

	cfg := Load()
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 5*time.Minute, cfg.PostCacheTTL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		t.Setenv("JWT_SECRET", "s3cret")
		return Load()
	}

	t.Run("ok", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("missing secret fails fast", func(t *testing.T) {
		cfg := valid()
		cfg.JWTSecret = "   "
		assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTSecret)
	})

	t.Run("negative ttl", func(t *testing.T) {
		cfg := valid()
		cfg.TokenTTL = -time.Second
		assert.Error(t, cfg.Validate())
	})

	t.Run("bcrypt cost out of range", func(t *testing.T) {
		cfg := valid()
		cfg.BcryptCost = 1
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := valid()
		cfg.StoreDriver = "mongo"
		assert.Error(t, cfg.Validate())
	})
}

func TestSplitLists(t *testing.T) {
	cfg := &Config{
		CORSAllowedOrigins: " http://a.test , ,http://b.test",
		ElasticsearchAddrs: "",
	}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:1/d?sslmode=disable", cfg.PostgresDSN())
}
