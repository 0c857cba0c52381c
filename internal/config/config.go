package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/replytrack/replytrack/internal/analysis"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string `mapstructure:"port"`
	Env            string `mapstructure:"env"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the sqlite database location
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig holds JWT signing configuration
type AuthConfig struct {
	JWTSecret   string `mapstructure:"jwt_secret"`
	TokenTTLHrs int    `mapstructure:"token_ttl_hours"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AnalyticsConfig holds the tunables of the analytics core
type AnalyticsConfig struct {
	MatchingWindowDays  int     `mapstructure:"matching_window_days"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	WorkingHoursStart   int     `mapstructure:"working_hours_start"`
	WorkingHoursEnd     int     `mapstructure:"working_hours_end"`
	ExcludeWeekends     bool    `mapstructure:"exclude_weekends"`
	MinimumSampleSize   int     `mapstructure:"minimum_sample_size"`
	MaxInsights         int     `mapstructure:"max_insights"`
}

// Settings converts the analytics section into core settings.
func (a AnalyticsConfig) Settings() analysis.Settings {
	return analysis.Settings{
		MatchingWindowDays:  a.MatchingWindowDays,
		ConfidenceThreshold: a.ConfidenceThreshold,
		WorkingHoursStart:   a.WorkingHoursStart,
		WorkingHoursEnd:     a.WorkingHoursEnd,
		ExcludeWeekends:     a.ExcludeWeekends,
		MinimumSampleSize:   a.MinimumSampleSize,
		MaxInsights:         a.MaxInsights,
	}
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	defaults := analysis.DefaultSettings()

	// Set default values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.allowed_origins", "")
	v.SetDefault("database.path", "replytrack.db")
	v.SetDefault("auth.token_ttl_hours", 72)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("analytics.matching_window_days", defaults.MatchingWindowDays)
	v.SetDefault("analytics.confidence_threshold", defaults.ConfidenceThreshold)
	v.SetDefault("analytics.working_hours_start", defaults.WorkingHoursStart)
	v.SetDefault("analytics.working_hours_end", defaults.WorkingHoursEnd)
	v.SetDefault("analytics.exclude_weekends", defaults.ExcludeWeekends)
	v.SetDefault("analytics.minimum_sample_size", defaults.MinimumSampleSize)
	v.SetDefault("analytics.max_insights", defaults.MaxInsights)

	// Read from environment variables
	v.SetEnvPrefix("REPLYTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables
	v.BindEnv("server.port", "PORT")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("database.path", "DATABASE_PATH")

	// Read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that all required configuration values are present and
// that the analytics tunables are sane. Invalid configuration is rejected
// here, never deep in the hot path.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.TokenTTLHrs <= 0 {
		return fmt.Errorf("auth token TTL must be positive, got %d hours", c.Auth.TokenTTLHrs)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if err := c.Analytics.Settings().Validate(); err != nil {
		return fmt.Errorf("invalid analytics configuration: %w", err)
	}
	return nil
}
