// Package config provides configuration management for the Trade Logger application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("TRADE_LOGGER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If the file doesn't exist, continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "trade-logger")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_seconds", 10)
	v.SetDefault("server.write_timeout_seconds", 20)
	v.SetDefault("server.idle_timeout_seconds", 60)

	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("auth.session_lifetime_seconds", 86400)
	v.SetDefault("auth.password_reset_expiry_seconds", 3600)
	v.SetDefault("auth.login_max_attempts", 5)
	v.SetDefault("auth.login_lockout_seconds", 900)

	v.SetDefault("uploads.path", "uploads")
	v.SetDefault("uploads.max_size_bytes", 4*1024*1024)

	v.SetDefault("mailer.enabled", false)
	v.SetDefault("mailer.retry_max", 3)
	v.SetDefault("mailer.batch_size", 25)

	v.SetDefault("scheduler.session_purge_cron", "@hourly")
	v.SetDefault("scheduler.email_dispatch_cron", "@every 1m")

	v.SetDefault("limits.default_strategy_limit", 3)
	v.SetDefault("limits.default_account_size", 10000)
	v.SetDefault("limits.rate_limit_rps", 10)
	v.SetDefault("limits.rate_limit_burst", 30)

	v.SetDefault("metrics.enabled", true)
}
