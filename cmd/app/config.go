package main

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           int      `mapstructure:"PORT"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Version        string   `mapstructure:"VERSION"`
	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`
	TLSCertFile    string   `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile     string   `mapstructure:"TLS_KEY_FILE"`

	DBHost         string        `mapstructure:"POSTGRES_HOST"`
	DBPort         string        `mapstructure:"POSTGRES_PORT"`
	DBUser         string        `mapstructure:"POSTGRES_USER"`
	DBPassword     string        `mapstructure:"POSTGRES_PASSWORD"`
	DBName         string        `mapstructure:"POSTGRES_DB"`
	DBMaxOpenConns int           `mapstructure:"POSTGRES_MAX_OPEN_CONNS"`
	DBMaxIdleConns int           `mapstructure:"POSTGRES_MAX_IDLE_CONNS"`
	DBMaxIdleTime  time.Duration `mapstructure:"POSTGRES_MAX_IDLE_TIME"`
	MigrateOnStart bool          `mapstructure:"MIGRATE_ON_START"`
	MigrationsPath string        `mapstructure:"MIGRATIONS_PATH"`

	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailUser     string `mapstructure:"MAIL_USER"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`
	MailSender   string `mapstructure:"MAIL_SENDER"`
	MailAdmin    string `mapstructure:"MAIL_ADMIN"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	CacheTTL              time.Duration `mapstructure:"CACHE_TTL"`
	DashboardQueryTimeout time.Duration `mapstructure:"DASHBOARD_QUERY_TIMEOUT"`

	LimiterEnabled bool    `mapstructure:"LIMITER_ENABLED"`
	LimiterRPS     float64 `mapstructure:"LIMITER_RPS"`
	LimiterBurst   int     `mapstructure:"LIMITER_BURST"`
}

var defaults = map[string]any{
	"PORT":                    4000,
	"ENVIRONMENT":             "development",
	"VERSION":                 "1.0.0",
	"TRUSTED_ORIGINS":         "",
	"TLS_CERT_FILE":           "",
	"TLS_KEY_FILE":            "",
	"POSTGRES_HOST":           "localhost",
	"POSTGRES_PORT":           "5432",
	"POSTGRES_USER":           "postgres",
	"POSTGRES_PASSWORD":       "",
	"POSTGRES_DB":             "agencysite",
	"POSTGRES_MAX_OPEN_CONNS": 25,
	"POSTGRES_MAX_IDLE_CONNS": 25,
	"POSTGRES_MAX_IDLE_TIME":  "15m",
	"MIGRATE_ON_START":        false,
	"MIGRATIONS_PATH":         "file://migrations",
	"MAIL_HOST":               "localhost",
	"MAIL_PORT":               1025,
	"MAIL_USER":               "",
	"MAIL_PASSWORD":           "",
	"MAIL_SENDER":             "no-reply@localhost",
	"MAIL_ADMIN":              "admin@localhost",
	"RABBITMQ_HOST":           "localhost",
	"RABBITMQ_PORT":           "5672",
	"RABBITMQ_USER":           "guest",
	"RABBITMQ_PASSWORD":       "guest",
	"CACHE_TTL":               "5m",
	"DASHBOARD_QUERY_TIMEOUT": "3s",
	"LIMITER_ENABLED":         true,
	"LIMITER_RPS":             2.0,
	"LIMITER_BURST":           4,
}

// loadConfig reads the .env file at path, if present, and lets environment variables
// override every key.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
