package config

import (
	"github.com/openhire/applicant-tracking-service/internal/logger"
)

// Config is the full application configuration, loaded once at startup.
type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Outbox   OutboxConfig        `mapstructure:"outbox"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env" validate:"omitempty,oneof=dev staging prod test"`
	Port    int    `mapstructure:"port" validate:"gt=0,lte=65535"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host" validate:"required"`
	Port              int    `mapstructure:"port" validate:"gt=0,lte=65535"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"dbname" validate:"required"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

// OutboxConfig tunes the email delivery loop.
type OutboxConfig struct {
	PollEverySeconds int `mapstructure:"poll_every_seconds" validate:"gte=0"`
	BatchSize        int `mapstructure:"batch_size" validate:"gte=0"`
}
