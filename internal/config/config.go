package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	pkgconfig "github.com/kenang-app/kenang-billing/pkg/config"
)

// ServiceName is used as the config file name and the env var prefix.
const ServiceName = "billing"

type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Midtrans MidtransConfig `mapstructure:"midtrans"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Sweeper  SweeperConfig  `mapstructure:"sweeper"`
}

// LoadConfig reads configs/{APP_ENV}/billing.yaml (or $CONFIG_PATH),
// overlays BILLING_* environment variables and validates the result.
func LoadConfig() (*Config, error) {
	raw, err := pkgconfig.Load(ServiceName, defaults())
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := raw.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// defaults registers every key so environment-only deployments resolve.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service.name":        ServiceName,
		"service.environment": "development",
		"service.version":     "dev",
		"service.app_url":     "http://localhost:3000",
		"service.client_url":  "http://localhost:3000",

		"server.http.host": "0.0.0.0",
		"server.http.port": 8080,
		"server.grpc.host": "0.0.0.0",
		"server.grpc.port": 9090,

		"database.host":               "localhost",
		"database.port":               5432,
		"database.name":               "kenang",
		"database.user":               "kenang",
		"database.password":           "",
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "30m",
		"database.conn_max_idle_time": "5m",
		"database.slow_threshold":     "200ms",
		"database.prepare_stmt":       true,
		"database.auto_migrate":       true,

		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.file_path":   "",
		"log.development": false,

		"jwt.secret": "",

		"midtrans.server_key":    "",
		"midtrans.client_key":    "",
		"midtrans.is_production": false,
		"midtrans.base_url":      "",
		"midtrans.timeout":       "30s",

		"redis.enabled":       false,
		"redis.addr":          "localhost:6379",
		"redis.password":      "",
		"redis.db":            0,
		"redis.event_channel": "billing.events",

		"sweeper.enabled":  true,
		"sweeper.interval": "1m",
		"sweeper.lock_ttl": "55s",
	}
}
