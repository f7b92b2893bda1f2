// Package config provides configuration data structures for pulse.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default values applied to unset fields.
const (
	DefaultBaseURL         = "https://pulseesg-backend.onrender.com/api"
	DefaultTimeout         = 180 * time.Second
	DefaultAnalyzePath     = "/esg/analyze"
	DefaultLoadingInterval = 3 * time.Second
	DefaultLogLevel        = "info"

	// MinTimeout and MaxTimeout bound api.timeout. Analyses on a cold AI
	// backend have been observed to need more than ten minutes.
	MinTimeout = time.Second
	MaxTimeout = 15 * time.Minute
)

// Config represents the complete pulse configuration loaded from config.yaml.
type Config struct {
	API     APIConfig     `yaml:"api"     json:"api"     mapstructure:"api"`
	Session SessionConfig `yaml:"session" json:"session" mapstructure:"session"`
	UI      UIConfig      `yaml:"ui"      json:"ui"      mapstructure:"ui"`
	Log     LogConfig     `yaml:"log"     json:"log"     mapstructure:"log"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	// BaseURL is prefixed to every endpoint path.
	BaseURL string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`
	// Timeout bounds a single request, including slow analyses.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
	// AnalyzePath is the analysis endpoint. Some deployments expose /analyze.
	AnalyzePath string `yaml:"analyze_path" json:"analyze_path" mapstructure:"analyze_path"`
}

// SessionConfig configures where the session is persisted.
type SessionConfig struct {
	// Path is the session file (default: <config dir>/session.json).
	Path string `yaml:"path" json:"path" mapstructure:"path"`
}

// Theme names a UI color scheme.
type Theme string

const (
	// ThemeDark is the default scheme.
	ThemeDark Theme = "dark"
	// ThemeLight is for light terminal backgrounds.
	ThemeLight Theme = "light"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// UIConfig configures the dashboard.
type UIConfig struct {
	// Theme is used until the user toggles it; the toggled value lives in the session.
	Theme Theme `yaml:"theme" json:"theme" mapstructure:"theme"`
	// LoadingInterval is how often the analysis loading message rotates.
	LoadingInterval time.Duration `yaml:"loading_interval" json:"loading_interval" mapstructure:"loading_interval"`
}

// LogConfig configures the file logger.
type LogConfig struct {
	Level string `yaml:"level" json:"level" mapstructure:"level"`
	// Dir holds pulse_<timestamp>.log files (default: <config dir>/logs).
	Dir  string `yaml:"dir"  json:"dir"  mapstructure:"dir"`
	JSON bool   `yaml:"json" json:"json" mapstructure:"json"`
}

// Dir returns the pulse configuration directory ($XDG_CONFIG_HOME/pulse on Linux).
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "pulse")
}

// NewConfig creates a Config with all default values.
func NewConfig() *Config {
	dir := Dir()
	return &Config{
		API: APIConfig{
			BaseURL:     DefaultBaseURL,
			Timeout:     DefaultTimeout,
			AnalyzePath: DefaultAnalyzePath,
		},
		Session: SessionConfig{
			Path: filepath.Join(dir, "session.json"),
		},
		UI: UIConfig{
			Theme:           ThemeDark,
			LoadingInterval: DefaultLoadingInterval,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
			Dir:   filepath.Join(dir, "logs"),
		},
	}
}

// ApplyDefaults applies default values to any unset fields.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.API.AnalyzePath == "" {
		c.API.AnalyzePath = defaults.API.AnalyzePath
	}
	if !strings.HasPrefix(c.API.AnalyzePath, "/") {
		c.API.AnalyzePath = "/" + c.API.AnalyzePath
	}

	if c.Session.Path == "" {
		c.Session.Path = defaults.Session.Path
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.LoadingInterval == 0 {
		c.UI.LoadingInterval = defaults.UI.LoadingInterval
	}

	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Dir == "" {
		c.Log.Dir = defaults.Log.Dir
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, &ValidationError{Field: "api.base_url", Message: "must be an absolute http(s) URL"})
	}
	if c.API.Timeout < MinTimeout || c.API.Timeout > MaxTimeout {
		errs = append(errs, &ValidationError{
			Field:   "api.timeout",
			Message: "must be between " + MinTimeout.String() + " and " + MaxTimeout.String(),
		})
	}

	switch c.UI.Theme {
	case ThemeDark, ThemeLight, "":
	default:
		errs = append(errs, &ValidationError{Field: "ui.theme", Message: "must be 'dark' or 'light'"})
	}
	if c.UI.LoadingInterval < 0 {
		errs = append(errs, &ValidationError{Field: "ui.loading_interval", Message: "must be non-negative"})
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		errs = append(errs, &ValidationError{
			Field:   "log.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
