// Package config loads service settings from an optional YAML file and
// overrides them from the environment or a dotenv file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// short_code column width.
const maxShortCodeLength = 50

type Config struct {
	Env               string      `yaml:"env"`
	BaseURL           string      `yaml:"base_url"`
	ShortCodeLength   int         `yaml:"short_code_length"`
	RateLimitRequests int64       `yaml:"rate_limit_requests"`
	DefaultUser       DefaultUser `yaml:"default_user"`
	HTTPServer        `yaml:"http_server"`
	Postgres          `yaml:"postgres"`
	Redis             `yaml:"redis"`
}

// LogLevel is debug outside production.
func (c *Config) LogLevel() slog.Level {
	if c.Env == EnvProd {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

type DefaultUser struct {
	Username string `yaml:"username"`
	APIKey   string `yaml:"api_key"`
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// TLS reports whether both certificate files are configured.
func (s *HTTPServer) TLS() bool {
	return s.CertFile != "" && s.KeyFile != ""
}

type Postgres struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db"`
	SSLMode         string        `yaml:"sslmode"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

type Redis struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

var defaultRedis = Redis{
	Host:     "localhost",
	Port:     6379,
	PoolSize: 10,
}

func (r *Redis) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load builds the configuration from defaults, the YAML file at path and then
// the environment. envFile names an optional dotenv file whose entries apply
// when the variable is not set in the process environment. Empty path or
// envFile are skipped, as is an envFile that does not exist.
func Load(path, envFile string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	setDefaults(&cfg)

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := applyEnv(&cfg, envFile); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}

	return nil
}

func applyEnv(cfg *Config, envFile string) error {
	v := viper.New()
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read env file: %w", err)
		}
	}

	strs := map[string]*string{
		"ENV":                   &cfg.Env,
		"BASE_URL":              &cfg.BaseURL,
		"API_DEFAULT_USER_NAME": &cfg.DefaultUser.Username,
		"API_DEFAULT_USER_KEY":  &cfg.DefaultUser.APIKey,
		"POSTGRES_USER":         &cfg.Postgres.User,
		"POSTGRES_PASSWORD":     &cfg.Postgres.Password,
		"POSTGRES_DB":           &cfg.Postgres.DB,
		"POSTGRES_HOST":         &cfg.Postgres.Host,
		"REDIS_HOST":            &cfg.Redis.Host,
		"REDIS_PASSWORD":        &cfg.Redis.Password,
	}
	for key, dst := range strs {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	ints := map[string]*int{
		"HTTP_PORT":         &cfg.HTTPServer.Port,
		"POSTGRES_PORT":     &cfg.Postgres.Port,
		"REDIS_PORT":        &cfg.Redis.Port,
		"SHORT_CODE_LENGTH": &cfg.ShortCodeLength,
	}
	for key, dst := range ints {
		if !v.IsSet(key) {
			continue
		}

		n, err := strconv.Atoi(v.GetString(key))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	if v.IsSet("RATE_LIMIT_REQUESTS") {
		n, err := strconv.ParseInt(v.GetString("RATE_LIMIT_REQUESTS"), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
		}
		cfg.RateLimitRequests = n
	}

	return nil
}

// Validate checks values that would otherwise fail at request time.
// A zero request limit is allowed and rejects every request.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvStage, EnvProd:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}

	if c.ShortCodeLength <= 0 || c.ShortCodeLength > maxShortCodeLength {
		return fmt.Errorf("short code length must be in [1, %d], got %d", maxShortCodeLength, c.ShortCodeLength)
	}

	if c.RateLimitRequests < 0 {
		return fmt.Errorf("rate limit must not be negative, got %d", c.RateLimitRequests)
	}

	for name, port := range map[string]int{
		"http server": c.HTTPServer.Port,
		"postgres":    c.Postgres.Port,
		"redis":       c.Redis.Port,
	} {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("invalid %s port %d", name, port)
		}
	}

	return nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.ShortCodeLength = 6
	cfg.RateLimitRequests = 100
	cfg.HTTPServer = defaultHTTPServer
	cfg.Postgres = defaultPostgres
	cfg.Redis = defaultRedis
}
