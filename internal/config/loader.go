package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from a YAML file with APP_-prefixed environment
// overrides (APP_POSTGRES_HOST wins over postgres.host) and validates the
// result before anything else starts.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	// Secrets usually come only from the environment, so they need explicit
	// bindings; AutomaticEnv alone doesn't surface keys absent from the file.
	_ = v.BindEnv("postgres.user", "APP_POSTGRES_USER")
	_ = v.BindEnv("postgres.password", "APP_POSTGRES_PASSWORD")
	_ = v.BindEnv("postgres.dbname", "APP_POSTGRES_DB")

	v.SetDefault("app.port", 8080)
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("outbox.poll_every_seconds", 5)
	v.SetDefault("outbox.batch_size", 50)

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return &config, nil
}
