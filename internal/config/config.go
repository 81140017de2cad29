package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/hostelhub/hostel-backend/internal/platform/database"
)

// JWTConfig holds token signing parameters.
type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
}

// KafkaConfig holds broker addresses for event publishing.
type KafkaConfig struct {
	Brokers []string
}

// ServiceConfig holds all configuration for the hostel backend.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	MigrationsPath string
	CORSOrigins    []string
	DBConfig       database.PostgresConfig
	JWTConfig      JWTConfig
	KafkaConfig    KafkaConfig
}

// IsDevelopment reports whether the service runs in development mode.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads configuration from HOSTEL_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("HOSTEL")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("CORS_ORIGINS", []string{"http://localhost:3000"})

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hostel")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("JWT_ACCESS_TTL", "24h")

	v.SetDefault("KAFKA_BROKERS", []string{"localhost:9092"})

	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		if v.GetString("APP_ENV") != "development" {
			return nil, fmt.Errorf("HOSTEL_JWT_SECRET is required outside development")
		}
		jwtSecret = "dev-only-secret"
	}

	return &ServiceConfig{
		Port:           v.GetString("SERVICE_PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		CORSOrigins:    v.GetStringSlice("CORS_ORIGINS"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTConfig: JWTConfig{
			Secret:    jwtSecret,
			AccessTTL: v.GetDuration("JWT_ACCESS_TTL"),
		},
		KafkaConfig: KafkaConfig{
			Brokers: v.GetStringSlice("KAFKA_BROKERS"),
		},
	}, nil
}
