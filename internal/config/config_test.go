package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("non-existent config file", func(t *testing.T) {
		cfg, err := Load("invalid/path/to/config.yml", "")

		assert.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Nil(t, cfg)
	})

	t.Run("invalid config file", func(t *testing.T) {
		data := `http_server:
  port: not number
postgres:
  user: test
  password: test
  db: test`

		f := createTempFile(t, "config-*.yml", []byte(data))
		cfg, err := Load(f.Name(), "")

		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load("", "")

		require.NoError(t, err)

		var wantCfg Config
		setDefaults(&wantCfg)

		assert.Equal(t, wantCfg, *cfg)
	})

	t.Run("success", func(t *testing.T) {
		data := `base_url: https://sho.rt
rate_limit_requests: 10
default_user:
  username: admin
  api_key: secret
http_server:
  cert_file: ./crts/example.pem
  key_file: ./crts/example-key.pem
postgres:
  user: test
  password: test
  db: test
redis:
  host: cache`

		f := createTempFile(t, "config-*.yml", []byte(data))
		cfg, err := Load(f.Name(), "")

		require.NoError(t, err)

		var wantCfg Config
		setDefaults(&wantCfg)

		wantCfg.BaseURL = "https://sho.rt"
		wantCfg.RateLimitRequests = 10
		wantCfg.DefaultUser = DefaultUser{Username: "admin", APIKey: "secret"}
		wantCfg.HTTPServer.CertFile = "./crts/example.pem"
		wantCfg.HTTPServer.KeyFile = "./crts/example-key.pem"
		wantCfg.Postgres.User = "test"
		wantCfg.Postgres.Password = "test"
		wantCfg.Postgres.DB = "test"
		wantCfg.Redis.Host = "cache"

		assert.Equal(t, wantCfg, *cfg)
		assert.True(t, cfg.HTTPServer.TLS())
	})

	t.Run("environment overrides file", func(t *testing.T) {
		data := `postgres:
  user: from-file
  port: 5433`

		f := createTempFile(t, "config-*.yml", []byte(data))

		t.Setenv("POSTGRES_USER", "from-env")
		t.Setenv("POSTGRES_HOST", "db")
		t.Setenv("REDIS_PORT", "6380")
		t.Setenv("RATE_LIMIT_REQUESTS", "3")
		t.Setenv("SHORT_CODE_LENGTH", "8")
		t.Setenv("API_DEFAULT_USER_NAME", "admin")
		t.Setenv("API_DEFAULT_USER_KEY", "key")

		cfg, err := Load(f.Name(), "")

		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Postgres.User)
		assert.Equal(t, "db", cfg.Postgres.Host)
		assert.Equal(t, 5433, cfg.Postgres.Port)
		assert.Equal(t, 6380, cfg.Redis.Port)
		assert.Equal(t, int64(3), cfg.RateLimitRequests)
		assert.Equal(t, 8, cfg.ShortCodeLength)
		assert.Equal(t, DefaultUser{Username: "admin", APIKey: "key"}, cfg.DefaultUser)
		assert.Equal(t, "localhost:6380", cfg.Redis.Addr())
	})

	t.Run("env file", func(t *testing.T) {
		data := "POSTGRES_USER=from-dotenv\nPOSTGRES_DB=shortener\nRATE_LIMIT_REQUESTS=7\n"

		f := createTempFile(t, "*.env", []byte(data))

		t.Setenv("POSTGRES_DB", "from-env")

		cfg, err := Load("", f.Name())

		require.NoError(t, err)
		assert.Equal(t, "from-dotenv", cfg.Postgres.User)
		assert.Equal(t, "from-env", cfg.Postgres.DB)
		assert.Equal(t, int64(7), cfg.RateLimitRequests)
	})

	t.Run("missing env file", func(t *testing.T) {
		cfg, err := Load("", "does/not/exist.env")

		assert.NoError(t, err)
		assert.NotNil(t, cfg)
	})

	t.Run("invalid number in environment", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "eighty")

		cfg, err := Load("", "")

		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Setenv("SHORT_CODE_LENGTH", "0")

		cfg, err := Load("", "")

		assert.Error(t, err)
		assert.Nil(t, cfg)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults",
			modify: func(*Config) {},
		},
		{
			name:   "zero rate limit",
			modify: func(c *Config) { c.RateLimitRequests = 0 },
		},
		{
			name:    "negative rate limit",
			modify:  func(c *Config) { c.RateLimitRequests = -1 },
			wantErr: true,
		},
		{
			name:    "zero short code length",
			modify:  func(c *Config) { c.ShortCodeLength = 0 },
			wantErr: true,
		},
		{
			name:    "short code longer than column",
			modify:  func(c *Config) { c.ShortCodeLength = 51 },
			wantErr: true,
		},
		{
			name:    "unknown env",
			modify:  func(c *Config) { c.Env = "qa" },
			wantErr: true,
		},
		{
			name:    "invalid port",
			modify:  func(c *Config) { c.Redis.Port = 70000 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			setDefaults(&cfg)
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPostgres_DSN(t *testing.T) {
	p := Postgres{User: "u", Password: "p", Host: "h", Port: 5432, DB: "d", SSLMode: "disable"}

	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", p.DSN())
}

func createTempFile(t testing.TB, pattern string, data []byte) *os.File {
	t.Helper()

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() {
		f.Close()
		os.Remove(f.Name())
	})

	if _, err := f.Write(data); err != nil {
		t.Fatalf("Failed to write to file: %v", err)
	}

	return f
}
