// ABOUTME: Client configuration loaded from disk, .env and environment
// ABOUTME: Holds the backend address, timeouts, toast duration and web listen address

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	// AppName names the XDG subdirectories.
	AppName = "friendlog"

	// ConfigFileName is the config file inside the XDG config dir.
	ConfigFileName = "config.json"

	// LogFileName is the log file used while the terminal UI owns the screen.
	LogFileName = "friendlog.log"

	DefaultAPIBaseURL    = "http://127.0.0.1:5000"
	DefaultTimeout       = 10 * time.Second
	DefaultToastDuration = 2800 * time.Millisecond
	DefaultWebAddr       = "127.0.0.1:8080"
	DefaultLogLevel      = "info"
)

// Environment overrides.
const (
	EnvAPIURL   = "FRIENDLOG_API_URL"
	EnvTimeout  = "FRIENDLOG_TIMEOUT"
	EnvWebAddr  = "FRIENDLOG_WEB_ADDR"
	EnvLogLevel = "FRIENDLOG_LOG_LEVEL"
)

// Duration is a time.Duration written as "10s" in the config file.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts "10s" style strings or plain nanosecond numbers.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration %s", data)
	}
	*d = Duration(n)
	return nil
}

// Config holds client settings.
type Config struct {
	// APIBaseURL is the backend root, e.g. http://127.0.0.1:5000
	APIBaseURL string `json:"api_base_url,omitempty"`

	// Timeout bounds each backend round trip.
	Timeout Duration `json:"timeout,omitempty"`

	// ToastDuration is how long notifications stay on screen.
	ToastDuration Duration `json:"toast_duration,omitempty"`

	// WebAddr is where `friendlog web` listens.
	WebAddr string `json:"web_addr,omitempty"`

	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `json:"log_level,omitempty"`
}

// DefaultConfig returns a new config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:    DefaultAPIBaseURL,
		Timeout:       Duration(DefaultTimeout),
		ToastDuration: Duration(DefaultToastDuration),
		WebAddr:       DefaultWebAddr,
		LogLevel:      DefaultLogLevel,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/friendlog/config.json, creating the
// directory if needed.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(AppName, ConfigFileName))
}

// LogPath returns the state-dir log file used by the terminal UI.
func LogPath() (string, error) {
	return xdg.StateFile(filepath.Join(AppName, LogFileName))
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the config at path (the XDG default when empty), fills missing
// fields with defaults and applies environment overrides. A missing file
// yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			// Can't determine config path, use defaults
			cfg := DefaultConfig()
			return cfg, cfg.ApplyEnv()
		}
		path = p
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.fillDefaults()
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.APIBaseURL == "" {
		c.APIBaseURL = d.APIBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.ToastDuration <= 0 {
		c.ToastDuration = d.ToastDuration
	}
	if c.WebAddr == "" {
		c.WebAddr = d.WebAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// ApplyEnv overrides fields from FRIENDLOG_* variables.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = Duration(d)
	}
	if v := strings.TrimSpace(os.Getenv(EnvWebAddr)); v != "" {
		c.WebAddr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks that the backend address is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api_base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api_base_url %q: scheme must be http or https", c.APIBaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// Save persists the config to path (the XDG default when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
