package config

import "time"

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	// AppURL is the web app origin used to build gateway callback URLs.
	AppURL    string `mapstructure:"app_url" validate:"required,url"`
	ClientURL string `mapstructure:"client_url"`
}

func (c ServiceConfig) IsProduction() bool {
	return c.Environment == "production"
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	Output      string `mapstructure:"output" validate:"omitempty,oneof=stdout stderr file"`
	FilePath    string `mapstructure:"file_path"`
	Development bool   `mapstructure:"development"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// MidtransConfig configures the Snap gateway. An empty ServerKey disables
// checkout; webhooks are then rejected as unverifiable.
type MidtransConfig struct {
	ServerKey    string        `mapstructure:"server_key"`
	ClientKey    string        `mapstructure:"client_key"`
	IsProduction bool          `mapstructure:"is_production"`
	BaseURL      string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"min=0"`
}

func (c MidtransConfig) Configured() bool {
	return c.ServerKey != "" && c.ClientKey != ""
}

type RedisConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Addr         string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db" validate:"min=0"`
	EventChannel string `mapstructure:"event_channel"`
}

type SweeperConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval" validate:"required_if=Enabled true"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}
