package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Guardrail GuardrailConfig `mapstructure:"guardrail"`
	Engine    EngineConfig    `mapstructure:"engine"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// S3Config configures the optional template catalog import. When BucketName
// is empty the import is skipped entirely.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	CatalogKey      string `mapstructure:"catalog_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines bearer-token validation. Tokens are minted by the
// surrounding platform; an empty secret disables auth on the API.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// GuardrailConfig points at the external safety policy engine. FailOpen
// decides what happens when the policy engine is unreachable or errors:
// true treats the candidate as valid with a warning, false drops it.
// This is a safety-relevant tradeoff; change it deliberately.
type GuardrailConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	FailOpen bool          `mapstructure:"fail_open"`
}

// EngineConfig carries the substitution engine's tunables.
type EngineConfig struct {
	MaxSuggestions       int     `mapstructure:"max_suggestions"`
	DefaultAvailableTime float64 `mapstructure:"default_available_time"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Env override, e.g. server.address -> SERVER_ADDRESS,
	// guardrail.fail_open -> GUARDRAIL_FAIL_OPEN.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "ignite_fitness")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("s3.catalog_key", "catalog/workout_templates.json")
	viper.SetDefault("guardrail.timeout", "3s")
	viper.SetDefault("guardrail.fail_open", true)
	viper.SetDefault("engine.max_suggestions", 3)
	viper.SetDefault("engine.default_available_time", 180)

	err = viper.ReadInConfig()
	// A missing config file is fine; env vars and defaults still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
