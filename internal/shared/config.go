package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	EnvAPIKey   = "OMDB_API_KEY"
	EnvDatabase = "MOVIEHUB_DB"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	OMDb      OMDbConfig      `toml:"omdb"`
	Server    ServerConfig    `toml:"server"`
	Site      SiteConfig      `toml:"site"`
	Log       LogConfig       `toml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// OMDbConfig contains metadata service settings.
type OMDbConfig struct {
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns the request timeout, defaulting to 10 seconds.
func (c OMDbConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SiteConfig contains static website generation settings.
type SiteConfig struct {
	Title     string `toml:"title"`
	StaticDir string `toml:"static_dir"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// TelemetryConfig contains optional error reporting settings.
type TelemetryConfig struct {
	SentryDSN   string `toml:"sentry_dsn"`
	Environment string `toml:"environment"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads variables from dotenv files into the process environment.
//
// Missing files are ignored; variables already set in the environment win.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values with their environment variable counterparts when set.
func (c *Config) ApplyEnv() {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		c.OMDb.APIKey = key
	}
	if path := strings.TrimSpace(os.Getenv(EnvDatabase)); path != "" {
		c.Database.Path = path
	}
}

// Validate checks the values required before any catalog operation can run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OMDb.APIKey) == "" {
		return fmt.Errorf("%w: set omdb.api_key or %s", ErrMissingCredentials, EnvAPIKey)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	}
	if c.OMDb.BaseURL == "" {
		return fmt.Errorf("%w: omdb.base_url is empty", ErrInvalidConfig)
	}
	return nil
}

// ResolveConfig loads path when it exists (defaults otherwise), applies environment overrides and validates
// the result.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	config.ApplyEnv()
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}
