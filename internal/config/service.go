package config

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// WebhookConfig holds the identity provider webhook signing secret.
type WebhookConfig struct {
	ClerkSecret string `mapstructure:"clerk_secret"`
}

// AuthConfig holds the HS256 secret used to verify session tokens.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// RedisConfig is optional. Events are only published when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// StripeConfig enables billing email lookups when SecretKey is set.
type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

func (c StripeConfig) Enabled() bool {
	return c.SecretKey != ""
}

// InternalConfig protects the billing collaborator endpoints.
type InternalConfig struct {
	APIKey string `mapstructure:"api_key"`
}
