package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/moritani/accountd/internal/storage"
)

// Config holds all configuration for the server
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Seed    SeedConfig    `mapstructure:"seed"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// StorageConfig holds storage configuration (URI-based)
type StorageConfig struct {
	URI   string `mapstructure:"uri"`   // Storage URI (e.g., memory://, file://./data/users.json, sqlite://./data/users.db)
	Token string `mapstructure:"token"` // Opaque token for storage authentication (S3 ACCESS_KEY:SECRET_KEY)
}

// SeedConfig holds seed account configuration
type SeedConfig struct {
	File string `mapstructure:"file"` // optional YAML file of accounts to preload
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // json | text
}

// NewViper creates a new viper instance with defaults and environment binding.
// CLI flags are bound on top of this instance before loading.
func NewViper() *viper.Viper {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("storage.uri", "memory://")
	v.SetDefault("storage.token", "")
	v.SetDefault("seed.file", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Bind environment variables with ACCOUNTD_ prefix
	v.SetEnvPrefix("ACCOUNTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load loads configuration from environment variables and defaults
func Load() (*Config, error) {
	return LoadWithViper(NewViper())
}

// LoadWithViper loads configuration using a pre-configured viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	// Validate storage URI
	if _, err := storage.ParseStorageURI(c.Storage.URI); err != nil {
		return fmt.Errorf("invalid storage URI: %w", err)
	}

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be debug, info, warn, or error")
	}

	// Validate logging format
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be json or text")
	}

	return nil
}

// GetParsedStorageURI returns the parsed storage URI
func (c *Config) GetParsedStorageURI() (*storage.StorageURI, error) {
	return storage.ParseStorageURI(c.Storage.URI)
}

// MaskToken returns a masked version of the storage token for logging
func (c *Config) MaskToken() string {
	if c.Storage.Token == "" {
		return ""
	}
	return "***"
}
