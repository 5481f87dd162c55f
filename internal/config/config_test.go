package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SOBREAVISO_DATABASE__URL", "postgres://localhost/sobreaviso")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.MetricsPort)
	assert.Equal(t, "postgres://localhost/sobreaviso", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Database.MigrateOnStart)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, 8*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "pt-BR", cfg.Locale)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	t.Setenv("SOBREAVISO_DATABASE__URL", "postgres://localhost/sobreaviso")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
server:
  port: "3000"
  read_timeout: 1m
database:
  url: postgres://file/sobreaviso
  max_open_conns: 25
session:
  backend: redis
  ttl: 30m
  redis:
    addr: redis:6379
    db: 2
locale: en
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadHeaderTimeout, "unset keys keep defaults")
	assert.Equal(t, "postgres://file/sobreaviso", cfg.Database.URL)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "redis:6379", cfg.Session.Redis.Addr)
	assert.Equal(t, 2, cfg.Session.Redis.DB)
	assert.Equal(t, "en", cfg.Locale)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*testing.T, *Config)
	}{
		{
			name:    "server port",
			envVars: map[string]string{"SOBREAVISO_SERVER__PORT": "9999"},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "9999", cfg.Server.Port)
			},
		},
		{
			name:    "database url",
			envVars: map[string]string{"SOBREAVISO_DATABASE__URL": "postgres://env/sobreaviso"},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "postgres://env/sobreaviso", cfg.Database.URL)
			},
		},
		{
			name: "session cookie and ttl",
			envVars: map[string]string{
				"SOBREAVISO_SESSION__TTL":           "2h",
				"SOBREAVISO_SESSION__COOKIE_SECURE": "true",
			},
			expected: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
				assert.True(t, cfg.Session.CookieSecure)
			},
		},
		{
			name: "login throttling",
			envVars: map[string]string{
				"SOBREAVISO_LOGIN__RATE":  "1.5",
				"SOBREAVISO_LOGIN__BURST": "10",
			},
			expected: func(t *testing.T, cfg *Config) {
				assert.InDelta(t, 1.5, cfg.Login.Rate, 0.0001)
				assert.Equal(t, 10, cfg.Login.Burst)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "database:\n  url: postgres://file/sobreaviso\nserver:\n  port: \"3000\"\n")
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load(path)
			require.NoError(t, err)
			tt.expected(t, cfg)
		})
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeFile(t, "server: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config file")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Default()
		cfg.Database.URL = "postgres://localhost/sobreaviso"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing database url", mutate: func(c *Config) { c.Database.URL = "" }, wantErr: "database.url"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: "log.level"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
		{name: "unknown backend", mutate: func(c *Config) { c.Session.Backend = "memcached" }, wantErr: "session.backend"},
		{name: "redis without addr", mutate: func(c *Config) {
			c.Session.Backend = SessionBackendRedis
			c.Session.Redis.Addr = ""
		}, wantErr: "session.redis.addr"},
		{name: "zero ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, wantErr: "session.ttl"},
		{name: "zero burst", mutate: func(c *Config) { c.Login.Burst = 0 }, wantErr: "login.rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database.max_open_conns", envKey("SOBREAVISO_DATABASE__MAX_OPEN_CONNS"))
	assert.Equal(t, "locale", envKey("SOBREAVISO_LOCALE"))
}

func TestLoad_EnumeratedValuesAreLowercased(t *testing.T) {
	t.Setenv("SOBREAVISO_DATABASE__URL", "postgres://localhost/sobreaviso")
	t.Setenv("SOBREAVISO_LOG__LEVEL", "DEBUG")
	t.Setenv("SOBREAVISO_LOG__FORMAT", " Text ")
	t.Setenv("SOBREAVISO_SESSION__BACKEND", "Memory")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
}

func TestValidate_LevelMatchingIsExact(t *testing.T) {
	cfg := Default()
	cfg.Database.URL = "postgres://localhost/sobreaviso"
	cfg.Log.Level = "DEBUG"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestLoad_TrustProxyHeaders(t *testing.T) {
	t.Setenv("SOBREAVISO_DATABASE__URL", "postgres://localhost/sobreaviso")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Server.TrustProxyHeaders)

	t.Setenv("SOBREAVISO_SERVER__TRUST_PROXY_HEADERS", "true")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Server.TrustProxyHeaders)
}
