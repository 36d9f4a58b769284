// Package config provides configuration management for the Trade Logger application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Uploads   UploadConfig    `mapstructure:"uploads" validate:"required"`
	Mailer    MailerConfig    `mapstructure:"mailer"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Limits    LimitsConfig    `mapstructure:"limits" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	IdleTimeoutSec  int    `mapstructure:"idle_timeout_seconds" validate:"required,gt=0"`
	SecureCookies   bool   `mapstructure:"secure_cookies"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// AuthConfig represents session and credential policy configuration
type AuthConfig struct {
	SessionLifetimeSec     int `mapstructure:"session_lifetime_seconds" validate:"required,gt=0"`
	PasswordResetExpirySec int `mapstructure:"password_reset_expiry_seconds" validate:"required,gt=0"`
	LoginMaxAttempts       int `mapstructure:"login_max_attempts" validate:"required,gt=0"`
	LoginLockoutSec        int `mapstructure:"login_lockout_seconds" validate:"required,gt=0"`
}

// SessionLifetime returns the session lifetime as a duration.
func (a AuthConfig) SessionLifetime() time.Duration {
	return time.Duration(a.SessionLifetimeSec) * time.Second
}

// PasswordResetExpiry returns the reset token lifetime as a duration.
func (a AuthConfig) PasswordResetExpiry() time.Duration {
	return time.Duration(a.PasswordResetExpirySec) * time.Second
}

// LoginLockout returns the failed-login lockout window as a duration.
func (a AuthConfig) LoginLockout() time.Duration {
	return time.Duration(a.LoginLockoutSec) * time.Second
}

// UploadConfig represents screenshot and chart image storage configuration
type UploadConfig struct {
	Path         string `mapstructure:"path" validate:"required"`
	MaxSizeBytes int64  `mapstructure:"max_size_bytes" validate:"required,gt=0"`
}

// MailerConfig represents the outbound email API configuration
type MailerConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	APIURL      string `mapstructure:"api_url" validate:"omitempty,url"`
	APIKey      string `mapstructure:"api_key"`
	FromAddress string `mapstructure:"from_address" validate:"omitempty,email"`
	RetryMax    int    `mapstructure:"retry_max" validate:"gte=0"`
	BatchSize   int    `mapstructure:"batch_size" validate:"required,gt=0"`
}

// SchedulerConfig represents cron schedules for background jobs
type SchedulerConfig struct {
	SessionPurgeCron  string `mapstructure:"session_purge_cron" validate:"required"`
	EmailDispatchCron string `mapstructure:"email_dispatch_cron" validate:"required"`
}

// LimitsConfig represents per-user limits and request throttling
type LimitsConfig struct {
	DefaultStrategyLimit int     `mapstructure:"default_strategy_limit" validate:"required,gt=0"`
	DefaultAccountSize   float64 `mapstructure:"default_account_size" validate:"gte=0"`
	RateLimitRPS         float64 `mapstructure:"rate_limit_rps" validate:"required,gt=0"`
	RateLimitBurst       int     `mapstructure:"rate_limit_burst" validate:"required,gt=0"`
}

// MetricsConfig represents Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ListenAddress returns the host:port the HTTP server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
