package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the complete service configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Redirect RedirectConfig `toml:"redirect"`
}

// ServerConfig contains listener settings
type ServerConfig struct {
	Port            string `toml:"port"`
	BodyLimit       string `toml:"body_limit"`
	ShutdownTimeout int    `toml:"shutdown_timeout_seconds"`
}

// DatabaseConfig contains the postgres connection string
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// RedirectConfig contains the targets for the non-API paths
type RedirectConfig struct {
	Home    string `toml:"home"`
	Favicon string `toml:"favicon"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			BodyLimit:       "1M",
			ShutdownTimeout: 10,
		},
		Redirect: RedirectConfig{
			Home:    "http://blueboard.com",
			Favicon: "http://blueboard.com/favicon.ico",
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file, an
// optional .env file and the process environment, in that order.
func Load(filename string) (*Config, error) {
	config := Default()

	if filename != "" {
		if _, err := toml.DecodeFile(filename, config); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	config.Database.URL = getEnv("DATABASE_URL", config.Database.URL)
	config.Server.Port = getEnv("PORT", config.Server.Port)
	config.Server.BodyLimit = getEnv("BODY_LIMIT", config.Server.BodyLimit)
	config.Redirect.Home = getEnv("HOME_REDIRECT_URL", config.Redirect.Home)
	config.Redirect.Favicon = getEnv("FAVICON_REDIRECT_URL", config.Redirect.Favicon)

	if raw := os.Getenv("SHUTDOWN_TIMEOUT"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", raw, err)
		}
		config.Server.ShutdownTimeout = seconds
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the settings the service cannot start without
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port %s: %w", c.Server.Port, err)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %d", c.Server.ShutdownTimeout)
	}
	return nil
}

// ShutdownGrace returns the shutdown timeout as a duration
func (c *Config) ShutdownGrace() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}

// Address returns the listen address for the HTTP server
func (c *Config) Address() string {
	return ":" + c.Server.Port
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
