package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Feed     FeedConfig
	Database DatabaseConfig
	Scorer   ScorerConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FeedConfig holds menu feed configuration
type FeedConfig struct {
	SourceURL    string        `mapstructure:"source_url"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	RefreshHour  int           `mapstructure:"refresh_hour"`
}

// DatabaseConfig holds the catalog store configuration
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// ScorerConfig holds the external scoring service configuration
type ScorerConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mensahub/")

	// Environment variable settings
	v.SetEnvPrefix("MENSAHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Feed defaults
	v.SetDefault("feed.source_url", "https://www.studentenwerk-hannover.de/fileadmin/user_upload/Speiseplan/SP-UTF8.xml")
	v.SetDefault("feed.fetch_timeout", "30s")
	v.SetDefault("feed.refresh_hour", 11) // daily refresh at 11:00 local time

	// Keys without a usable default still need to be registered so their
	// environment variables are picked up during Unmarshal.
	v.SetDefault("database.url", "")
	v.SetDefault("scorer.api_key", "")

	// Scorer defaults
	v.SetDefault("scorer.base_url", "https://api.mistral.ai")
	v.SetDefault("scorer.model", "mistral-small-latest")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.URL == "" {
		return fmt.Errorf("database URL is required (set MENSAHUB_DATABASE_URL)")
	}

	if config.Feed.SourceURL == "" {
		return fmt.Errorf("feed source URL is required")
	}

	if config.Feed.RefreshHour < 0 || config.Feed.RefreshHour > 23 {
		return fmt.Errorf("feed refresh hour must be between 0 and 23, got: %d", config.Feed.RefreshHour)
	}

	return nil
}
