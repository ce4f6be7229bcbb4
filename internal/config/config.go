package config

import (
	"fmt"

	pkgconfig "github.com/wekeepgrowing/semo-customer/pkg/config"
)

const serviceName = "customer"

type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Stripe   StripeConfig   `mapstructure:"stripe"`
	Internal InternalConfig `mapstructure:"internal"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service.name":                  serviceName,
		"service.environment":           "dev",
		"server.http.host":              "0.0.0.0",
		"server.http.port":              8080,
		"server.http.allow_origins":     []string{"*"},
		"log.level":                     "info",
		"log.format":                    "json",
		"log.output":                    "stdout",
		"database.driver":               "postgres",
		"database.sslmode":              "disable",
		"database.max_open_conns":       10,
		"database.max_idle_conns":       5,
		"database.conn_max_lifetime":    "30m",
		"database.conn_max_idle_time":   "5m",
		"database.slow_query_threshold": "200ms",
		"database.auto_migrate":         true,
		"webhook.clerk_secret":          "",
		"auth.jwt_secret":               "",
		"redis.addr":                    "",
		"redis.password":                "",
		"redis.db":                      0,
		"stripe.secret_key":             "",
		"internal.api_key":              "",
	}
}

// LoadConfig reads customer.yaml for the current APP_ENV. CUSTOMER_* environment
// variables override file values.
func LoadConfig() (*Config, error) {
	loaded, err := pkgconfig.Load(serviceName, defaults())
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := loaded.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.HTTP.Port <= 0 || c.Server.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.Server.HTTP.Port)
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	return nil
}
