// Package config loads the blog server configuration from YAML and the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is only suitable for local development.
const DefaultJWTSecret = "development-secret-change-me"

// Config represents the complete server configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Uploads  UploadsConfig  `yaml:"uploads"`
	Views    ViewsConfig    `yaml:"views"`
	Static   StaticConfig   `yaml:"static"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig configures the badger store. An empty path uses a temporary
// directory that is removed when the store closes.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig configures token signing and the session cookie
type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret" validate:"required,min=8"`
	SecureCookie bool   `yaml:"secure_cookie"`
}

// UploadsConfig configures where post images are written
type UploadsConfig struct {
	Dir      string `yaml:"dir" validate:"required"`
	MaxBytes int64  `yaml:"max_bytes" validate:"gt=0"`
}

// ViewsConfig overrides the embedded templates with a directory on disk
type ViewsConfig struct {
	Dir string `yaml:"dir"`
}

// StaticConfig overrides the embedded static assets with a directory on disk
type StaticConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig configures the slog handler
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":3000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "data/blog.db",
		},
		Auth: AuthConfig{
			JWTSecret: DefaultJWTSecret,
		},
		Uploads: UploadsConfig{
			Dir:      "public/uploads",
			MaxBytes: 10 << 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path (if non-empty) over the defaults, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, getenv func(string) string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnv(getenv)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if port := getenv("PORT"); port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if secret := getenv("JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if path := getenv("BLOG_DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if dir := getenv("BLOG_UPLOADS_DIR"); dir != "" {
		c.Uploads.Dir = dir
	}
	if level := getenv("BLOG_LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
}

var validate = validator.New()

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel maps the configured level name to a slog.Level
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
