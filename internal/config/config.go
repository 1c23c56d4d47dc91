package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Payroll    PayrollDefaults
	Attendance AttendanceDefaults
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds the shared secret used to verify actor tokens.
// Token issuance lives in the identity service, not here.
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string

	// Bounded worker pool size for per-employee payroll processing.
	PayrollWorkers int

	// Budget for loading the settings snapshot before falling back to defaults.
	SettingsTimeout time.Duration

	// Interval for the leave accrual and carry-forward jobs.
	AccrualInterval time.Duration
}

// PayrollDefaults are the documented fallback values used when the
// settings store is unreachable or has no row for the company.
type PayrollDefaults struct {
	OvertimeMultiplier     decimal.Decimal
	FederalTaxRate         decimal.Decimal
	StateTaxRate           decimal.Decimal
	LocalTaxRate           decimal.Decimal
	SocialSecurityRate     decimal.Decimal
	SocialSecurityWageBase decimal.Decimal
	MedicareRate           decimal.Decimal
}

type AttendanceDefaults struct {
	DailyWorkingHours  float64
	WeeklyWorkingHours float64
}

func Load() (*Config, error) {
	// Missing .env is fine in production, env vars are injected there.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "payroll_engine"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET", "dev-secret"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	workers, err := strconv.Atoi(getEnv("PAYROLL_WORKERS", "4"))
	if err != nil || workers < 1 {
		return nil, fmt.Errorf("invalid PAYROLL_WORKERS: %v", err)
	}

	settingsTimeout, err := time.ParseDuration(getEnv("SETTINGS_TIMEOUT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SETTINGS_TIMEOUT: %w", err)
	}

	accrualInterval, err := time.ParseDuration(getEnv("ACCRUAL_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCRUAL_INTERVAL: %w", err)
	}

	config.App = AppConfig{
		Port:            appPort,
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		PayrollWorkers:  workers,
		SettingsTimeout: settingsTimeout,
		AccrualInterval: accrualInterval,
	}

	config.Payroll = PayrollDefaults{
		OvertimeMultiplier:     getDecimalEnv("OVERTIME_MULTIPLIER", "1.5"),
		FederalTaxRate:         getDecimalEnv("TAX_FEDERAL_RATE", "0.12"),
		StateTaxRate:           getDecimalEnv("TAX_STATE_RATE", "0.05"),
		LocalTaxRate:           getDecimalEnv("TAX_LOCAL_RATE", "0.01"),
		SocialSecurityRate:     getDecimalEnv("TAX_SOCIAL_SECURITY_RATE", "0.062"),
		SocialSecurityWageBase: getDecimalEnv("TAX_SOCIAL_SECURITY_WAGE_BASE", "168600"),
		MedicareRate:           getDecimalEnv("TAX_MEDICARE_RATE", "0.0145"),
	}

	config.Attendance = AttendanceDefaults{
		DailyWorkingHours:  getFloatEnv("DAILY_WORKING_HOURS", 8),
		WeeklyWorkingHours: getFloatEnv("WEEKLY_WORKING_HOURS", 40),
	}

	return config, nil
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User, c.Database.Password,
		c.Database.Host, c.Database.Port,
		c.Database.Name, c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDecimalEnv(key, fallback string) decimal.Decimal {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(fallback)
}
