package config

import (
	"log"
	"os"

	"nomadlink/pkg/logger"
	"nomadlink/pkg/notification"
	"nomadlink/pkg/util"
)

type Config struct {
	DBDriver  string `env:"DB_DRIVER"`
	DSN       string `env:"DSN"`
	Addr      string `env:"ADDR"`
	Mode      string `env:"MODE"`
	APIPrefix string `env:"API_PREFIX"`

	JWTSecret          string `env:"JWT_SECRET"`
	AccessTokenMinutes int64  `env:"ACCESS_TOKEN_MINUTES"`
	RefreshTokenHours  int64  `env:"REFRESH_TOKEN_HOURS"`

	AdminEmail     string `env:"ADMIN_EMAIL"`
	ChainClientURL string `env:"CHAIN_CLIENT_URL"`
	NonceRate      string `env:"NONCE_RATE"` // ulule format, e.g. "30-M"

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL"`

	Log  logger.LogConfig
	Mail notification.MailConfig
}

var GlobalConfig *Config

func Load() error {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := util.LoadEnv(env); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	GlobalConfig = &Config{
		DBDriver:  util.GetEnv("DB_DRIVER"),
		DSN:       util.GetEnv("DSN"),
		Addr:      util.GetEnvDefault("ADDR", ":8080"),
		Mode:      util.GetEnvDefault("MODE", "debug"),
		APIPrefix: util.GetEnvDefault("API_PREFIX", "/api"),

		JWTSecret:          util.GetEnvDefault("JWT_SECRET", "dev-secret-change-me"),
		AccessTokenMinutes: defaultInt(util.GetIntEnv("ACCESS_TOKEN_MINUTES"), 60),
		RefreshTokenHours:  defaultInt(util.GetIntEnv("REFRESH_TOKEN_HOURS"), 24),

		AdminEmail:     util.GetEnv("ADMIN_EMAIL"),
		ChainClientURL: util.GetEnv("CHAIN_CLIENT_URL"),
		NonceRate:      util.GetEnvDefault("NONCE_RATE", "30-M"),

		RedisAddr:     util.GetEnv("REDIS_ADDR"),
		RedisPassword: util.GetEnv("REDIS_PASSWORD"),

		MinioEndpoint:  util.GetEnv("MINIO_ENDPOINT"),
		MinioAccessKey: util.GetEnv("MINIO_ACCESS_KEY"),
		MinioSecretKey: util.GetEnv("MINIO_SECRET_KEY"),
		MinioBucket:    util.GetEnv("MINIO_BUCKET"),
		MinioUseSSL:    util.GetBoolEnv("MINIO_USE_SSL"),

		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		Mail: notification.MailConfig{
			Host:     util.GetEnv("MAIL_HOST"),
			Port:     util.GetIntEnv("MAIL_PORT"),
			Username: util.GetEnv("MAIL_USERNAME"),
			Password: util.GetEnv("MAIL_PASSWORD"),
			From:     util.GetEnv("MAIL_FROM"),
		},
	}
	return nil
}

func defaultInt(v, fallback int64) int64 {
	if v == 0 {
		return fallback
	}
	return v
}
