// Package config loads service configuration files with viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config gives access to loaded configuration values.
type Config interface {
	GetString(key string) string
	Unmarshal(out interface{}) error
	ConfigFileUsed() string
}

type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *viperConfig) Unmarshal(out interface{}) error {
	return c.v.Unmarshal(out)
}

func (c *viperConfig) ConfigFileUsed() string {
	return c.v.ConfigFileUsed()
}

const configDir = "configs"

// Load reads {serviceName}.yaml from CONFIG_PATH, or configs/{APP_ENV} with a
// fallback to configs/example. Environment variables prefixed with the upper
// cased service name override file values, e.g. CUSTOMER_SERVER_HTTP_PORT.
// Only keys present in the file or in defaults can be overridden.
func Load(serviceName string, defaults map[string]interface{}) (Config, error) {
	v := viper.New()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(configDir, env)
	}

	v.SetConfigName(serviceName)
	v.AddConfigPath(configPath)
	v.AddConfigPath(filepath.Join(configDir, "example"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("load %s config from %s: %w", serviceName, configPath, err)
	}

	return &viperConfig{v: v}, nil
}
