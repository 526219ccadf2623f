package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the service reads,
// e.g. TASKS_SERVER_PORT for server.port.
const EnvPrefix = "TASKS"

// Load configuration from environment variables and an optional config.yaml
// in the working directory. Environment variables take precedence over values
// from the config file, which take precedence over defaults.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshalAndValidate(v)
}

// LoadFile loads configuration from the given file, with environment
// variables still taking precedence over it.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return unmarshalAndValidate(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	// Every key needs a default so that AutomaticEnv can resolve it on Unmarshal.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("store.driver", StoreDriverMemory)
	v.SetDefault("database.url", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints and the cross-field rule that the
// postgres driver needs a database URL.
func Validate(cfg *Config) error {
	validate := validator.New()
	validate.RegisterStructValidation(validateStoreDatabase, Config{})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func validateStoreDatabase(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Store.Driver == StoreDriverPostgres && cfg.Database.URL == "" {
		sl.ReportError(cfg.Database.URL, "Database.URL", "URL", "required_with_postgres", "")
	}
}
