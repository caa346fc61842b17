package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yukikurage/task-analytics-api/internal/constants"
)

type Config struct {
	DBDriver           string        `mapstructure:"DB_DRIVER"`
	DBHost             string        `mapstructure:"DB_HOST"`
	DBPort             string        `mapstructure:"DB_PORT"`
	DBUser             string        `mapstructure:"DB_USER"`
	DBPassword         string        `mapstructure:"DB_PASSWORD"`
	DBName             string        `mapstructure:"DB_NAME"`
	DBSSLMode          string        `mapstructure:"DB_SSLMODE"`
	DBPath             string        `mapstructure:"DB_PATH"`
	DBLogLevel         string        `mapstructure:"DB_LOG_LEVEL"`
	GinMode            string        `mapstructure:"GIN_MODE"`
	Port               string        `mapstructure:"PORT"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	LogFormat          string        `mapstructure:"LOG_FORMAT"`
	LogFile            string        `mapstructure:"LOG_FILE"`
	CORSAllowedOrigins []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
	DashboardTimeout   time.Duration `mapstructure:"DASHBOARD_TIMEOUT"`
	MetricsEnabled     bool          `mapstructure:"METRICS_ENABLED"`
}

var (
	supportedDrivers    = []string{"mysql", "postgres", "sqlite"}
	supportedLogFormats = []string{"console", "json"}
	supportedDBLevels   = []string{"silent", "error", "warn", "info"}
)

// Load reads configuration from an optional .env file and the environment.
// Environment variables win over .env values; unset keys fall back to defaults.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Comma separated lists may arrive from the environment untrimmed.
	cfg.CORSAllowedOrigins = splitList(strings.Join(cfg.CORSAllowedOrigins, ","))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "taskuser")
	v.SetDefault("DB_PASSWORD", "taskpassword")
	v.SetDefault("DB_NAME", "task_management")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "task_management.db")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("DASHBOARD_TIMEOUT", constants.DefaultDashboardTimeout)
	v.SetDefault("METRICS_ENABLED", true)
}

// Validate checks that enumerated settings hold supported values.
func (c *Config) Validate() error {
	if !slices.Contains(supportedDrivers, c.DBDriver) {
		return fmt.Errorf("unsupported DB_DRIVER %q (valid: %s)", c.DBDriver, strings.Join(supportedDrivers, ", "))
	}
	if !slices.Contains(supportedLogFormats, c.LogFormat) {
		return fmt.Errorf("unsupported LOG_FORMAT %q (valid: %s)", c.LogFormat, strings.Join(supportedLogFormats, ", "))
	}
	if !slices.Contains(supportedDBLevels, c.DBLogLevel) {
		return fmt.Errorf("unsupported DB_LOG_LEVEL %q (valid: %s)", c.DBLogLevel, strings.Join(supportedDBLevels, ", "))
	}
	if c.DashboardTimeout <= 0 {
		return fmt.Errorf("DASHBOARD_TIMEOUT must be positive, got %s", c.DashboardTimeout)
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
