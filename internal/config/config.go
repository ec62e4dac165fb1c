package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Timezone string
}

func Load() (*Config, error) {
	// .env is optional; real deployments configure via environment
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "kintai"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "Asia/Tokyo"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return nil
}

// Location returns the configured work-date timezone.
// Validate has already checked the zone name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
