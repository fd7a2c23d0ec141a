// Package config handles loading application configuration from YAML files,
// a .env file and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MINTQR_"

// Config holds all application configuration values.
type Config struct {
	Port         int      `yaml:"port"`
	DataDir      string   `yaml:"data_dir"`
	Storage      string   `yaml:"storage"`
	Engine       string   `yaml:"engine"`
	LogLevel     string   `yaml:"log_level"`
	ShareBaseURL string   `yaml:"share_base_url"`
	Debounce     Duration `yaml:"debounce"`
	DownloadName string   `yaml:"download_name"`
	DownloadDir  string   `yaml:"download_dir"`
}

// Duration is a wrapper around time.Duration that supports YAML unmarshalling
// from human-readable strings like "180ms" or "1s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Defaults returns a Config populated with default values.
func Defaults() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return &Config{
		Port:         8080,
		DataDir:      filepath.Join(homeDir, ".mintqr"),
		Storage:      "sqlite",
		Engine:       "yeqown",
		LogLevel:     "info",
		ShareBaseURL: "",
		Debounce:     Duration{180 * time.Millisecond},
		DownloadName: "mint-qr.png",
		DownloadDir:  ".",
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. Variables from a .env file in the
// working directory are loaded next, then MINTQR_* environment variables
// (and PORT) override file and default values.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// A missing .env is normal.
	_ = godotenv.Load()

	applyEnvOverrides(cfg)
	return cfg, cfg.Validate()
}

// applyEnvOverrides applies environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv(EnvPrefix + "PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv(EnvPrefix + "DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvPrefix + "STORAGE"); v != "" {
		cfg.Storage = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPrefix + "ENGINE"); v != "" {
		cfg.Engine = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvPrefix + "SHARE_BASE_URL"); v != "" {
		cfg.ShareBaseURL = v
	}
	if v := os.Getenv(EnvPrefix + "DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Debounce = Duration{d}
		}
	}
	if v := os.Getenv(EnvPrefix + "DOWNLOAD_NAME"); v != "" {
		cfg.DownloadName = v
	}
	if v := os.Getenv(EnvPrefix + "DOWNLOAD_DIR"); v != "" {
		cfg.DownloadDir = v
	}
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Debounce.Duration < 0 {
		return fmt.Errorf("invalid debounce %s", c.Debounce)
	}
	switch c.Storage {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("invalid storage %q (want sqlite, file or memory)", c.Storage)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ShareBase is the URL share links point at. It defaults to the local page.
func (c *Config) ShareBase() string {
	if c.ShareBaseURL != "" {
		return c.ShareBaseURL
	}
	return fmt.Sprintf("http://localhost:%d/", c.Port)
}

// EnsureDataDir creates DataDir if it does not already exist.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", c.DataDir, err)
	}
	return nil
}
