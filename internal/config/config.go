package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Prices   PricesConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
}

// AuthConfig holds login, lockout and step-up authentication configuration
type AuthConfig struct {
	ResetTokenSecret string
	LockoutThreshold int
	LockoutDuration  time.Duration
	OTPExpiry        time.Duration
	OTPMaxAttempts   int
	ResetTokenTTL    time.Duration
}

// SMTPConfig holds outbound mail configuration for the notification sink
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// PricesConfig holds price-oracle endpoints and the per-call timeout
type PricesConfig struct {
	CryptoBaseURL string
	FXBaseURL     string
	Timeout       time.Duration
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string // debug, info, warn, error
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "bancore"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "5m"),
		},
		Auth: AuthConfig{
			LockoutThreshold: getEnvAsInt("AUTH_LOCKOUT_THRESHOLD", 3),
			LockoutDuration:  getEnvAsDuration("AUTH_LOCKOUT_DURATION", "5m"),
			OTPExpiry:        getEnvAsDuration("AUTH_OTP_EXPIRY", "10m"),
			OTPMaxAttempts:   getEnvAsInt("AUTH_OTP_MAX_ATTEMPTS", 5),
			ResetTokenSecret: getEnv("AUTH_RESET_TOKEN_SECRET", "dev-only-secret"),
			ResetTokenTTL:    getEnvAsDuration("AUTH_RESET_TOKEN_TTL", "1h"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
		Prices: PricesConfig{
			CryptoBaseURL: getEnv("PRICES_CRYPTO_BASE_URL", "https://api.coingecko.com/api/v3"),
			FXBaseURL:     getEnv("PRICES_FX_BASE_URL", "https://api.frankfurter.app"),
			Timeout:       getEnvAsDuration("PRICES_TIMEOUT", "12s"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host cannot be empty")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name cannot be empty")
	}

	if c.Auth.LockoutThreshold < 1 {
		return fmt.Errorf("lockout threshold must be at least 1, got %d", c.Auth.LockoutThreshold)
	}
	if c.Auth.LockoutDuration <= 0 {
		return fmt.Errorf("lockout duration must be positive")
	}
	if c.Auth.OTPMaxAttempts < 1 {
		return fmt.Errorf("OTP max attempts must be at least 1, got %d", c.Auth.OTPMaxAttempts)
	}
	if c.Auth.OTPExpiry <= 0 {
		return fmt.Errorf("OTP expiry must be positive")
	}
	if c.Auth.ResetTokenSecret == "" {
		return fmt.Errorf("reset token secret cannot be empty")
	}

	if c.Prices.Timeout <= 0 {
		return fmt.Errorf("prices timeout must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to parsing the default if provided value is invalid
		duration, err = time.ParseDuration(defaultValue)
		if err != nil {
			return 0
		}
	}
	return duration
}
