package internal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source"`
}

// RedisConfig is optional: when Addr is empty the server falls back to the
// in-memory session store.
type RedisConfig struct {
	Addr    string        `mapstructure:"addr"`
	DB      int           `mapstructure:"db"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig carries every knob the authentication core recognizes.
type AuthConfig struct {
	MaxLoginAttempts  int           `mapstructure:"max_login_attempts"`
	LockoutWindow     time.Duration `mapstructure:"lockout_window"`
	SessionTimeout    time.Duration `mapstructure:"session_timeout"`
	CSRFTokenLifetime time.Duration `mapstructure:"csrf_token_lifetime"`
	BCryptCost        int           `mapstructure:"bcrypt_cost"`
	CookieSecret      string        `mapstructure:"cookie_secret" validate:"required,min=32"`
	CookieSecure      bool          `mapstructure:"cookie_secure"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

const (
	DefaultMaxLoginAttempts  = 5
	DefaultLockoutWindow     = 15 * time.Minute
	DefaultSessionTimeout    = 3600 * time.Second
	DefaultCSRFTokenLifetime = 1800 * time.Second
)

// ApplyDefaults fills zero-valued auth settings with the documented defaults.
func (c *AuthConfig) ApplyDefaults() {
	if c.MaxLoginAttempts <= 0 {
		c.MaxLoginAttempts = DefaultMaxLoginAttempts
	}
	if c.LockoutWindow <= 0 {
		c.LockoutWindow = DefaultLockoutWindow
	}
	if c.SessionTimeout <= 0 {
		c.SessionTimeout = DefaultSessionTimeout
	}
	if c.CSRFTokenLifetime <= 0 {
		c.CSRFTokenLifetime = DefaultCSRFTokenLifetime
	}
	if c.BCryptCost <= 0 {
		c.BCryptCost = 12
	}
}

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Auth.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("auth config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *AuthConfig) Validate() error {
	c.ApplyDefaults()
	if len(c.CookieSecret) < 32 {
		return errors.New("cookie secret must be at least 32 characters")
	}
	if c.BCryptCost < 10 || c.BCryptCost > 15 {
		return errors.New("bcrypt_cost must be between 10 and 15")
	}
	if c.LockoutWindow < time.Minute {
		return errors.New("lockout_window must be at least 1 minute")
	}
	return nil
}
