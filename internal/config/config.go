// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/warp/period-engine/internal/log"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PERIODS"

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all environment-based configuration.
// Field names map to environment variables with the PERIODS_ prefix.
type Config struct {
	// Host is the server host to bind to.
	// Env: PERIODS_HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PERIODS_PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// OutputTimezone is the IANA zone used for "now" when a request does
	// not carry a reference instant.
	// Env: PERIODS_OUTPUT_TIMEZONE (default: UTC)
	OutputTimezone string `envconfig:"OUTPUT_TIMEZONE" default:"UTC"`

	// DefaultLength is the period length used when a request omits it.
	// Env: PERIODS_DEFAULT_LENGTH (default: 6)
	DefaultLength int `envconfig:"DEFAULT_LENGTH" default:"6"`

	// MaxLength bounds the period length accepted by the API.
	// Env: PERIODS_MAX_LENGTH (default: 120)
	MaxLength int `envconfig:"MAX_LENGTH" default:"120"`

	// LogLevel is the zerolog level name.
	// Env: PERIODS_LOG_LEVEL (default: info)
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFormat is console or json.
	// Env: PERIODS_LOG_FORMAT (default: console)
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	// PresetsFile is an optional YAML file with extra presets.
	// Env: PERIODS_PRESETS_FILE
	PresetsFile string `envconfig:"PRESETS_FILE"`

	// CORSOrigins lists origins allowed to call the API.
	// Env: PERIODS_CORS_ORIGINS (comma-separated)
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://localhost:8080"`

	// RolloverInterval is how often presets are checked for rollovers.
	// Env: PERIODS_ROLLOVER_INTERVAL (default: 1m)
	RolloverInterval time.Duration `envconfig:"ROLLOVER_INTERVAL" default:"1m"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: PERIODS_SHUTDOWN_TIMEOUT (default: 30s)
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// Load reads an optional .env file then the environment.
// Variables already set in the environment win over the file.
func Load(envPath string) (Config, error) {
	if err := LoadDotEnv(envPath); err != nil {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from a .env file.
// If path is empty, it loads from ".env" in the current directory.
// If the file does not exist, it silently returns nil.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Validate checks value ranges and resolvable names.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.DefaultLength < 1 {
		return fmt.Errorf("%w: default length must be at least 1, got %d", ErrInvalidConfig, c.DefaultLength)
	}
	if c.MaxLength < c.DefaultLength {
		return fmt.Errorf("%w: max length %d below default length %d", ErrInvalidConfig, c.MaxLength, c.DefaultLength)
	}
	if c.RolloverInterval <= 0 {
		return fmt.Errorf("%w: rollover interval must be positive, got %s", ErrInvalidConfig, c.RolloverInterval)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("%w: log format %q must be console or json", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Location resolves OutputTimezone. An empty value means UTC.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.OutputTimezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: output timezone %q: %v", ErrInvalidConfig, name, err)
	}
	return loc, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
