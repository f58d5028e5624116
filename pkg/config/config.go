// Package config loads layered service configuration with viper.
//
// Values are resolved in this order: environment variables prefixed with the
// upper-cased service name, the YAML file, then the registered defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config gives read access to configuration values.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetFloat64(key string) float64
	GetStringSlice(key string) []string
	GetStringMap(key string) map[string]interface{}
	GetAll() map[string]interface{}
	Unmarshal(out interface{}) error
	ConfigFileUsed() string
}

type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *viperConfig) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *viperConfig) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *viperConfig) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

func (c *viperConfig) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

func (c *viperConfig) GetStringMap(key string) map[string]interface{} {
	return c.v.GetStringMap(key)
}

func (c *viperConfig) GetAll() map[string]interface{} {
	return c.v.AllSettings()
}

// Unmarshal decodes all settings into out using mapstructure tags.
func (c *viperConfig) Unmarshal(out interface{}) error {
	return c.v.Unmarshal(out)
}

func (c *viperConfig) ConfigFileUsed() string {
	return c.v.ConfigFileUsed()
}

const configDir = "configs"

// Load reads {serviceName}.yaml from $CONFIG_PATH, configs/{APP_ENV}/ or
// configs/example/, in that order. A missing file is not an error: defaults
// and environment variables still apply. CONFIG_PATH may also point directly
// at a file.
func Load(serviceName string, defaults map[string]interface{}) (Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" && filepath.Ext(configPath) != "" {
		v.SetConfigFile(configPath)
	} else {
		if configPath == "" {
			configPath = filepath.Join(configDir, env)
		}
		v.SetConfigName(serviceName)
		v.AddConfigPath(configPath)
		v.AddConfigPath(filepath.Join(configDir, "example"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &viperConfig{v: v}, nil
}
