package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file name inside Dir().
	FileName = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides,
	// e.g. PULSE_API_BASE_URL overrides api.base_url.
	EnvPrefix = "PULSE"
)

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), FileName)
}

// Loader handles loading configuration from files and environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader seeded with the defaults,
// so environment overrides apply even when no file exists.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := NewConfig()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.analyze_path", d.API.AnalyzePath)
	v.SetDefault("session.path", d.Session.Path)
	v.SetDefault("ui.theme", string(d.UI.Theme))
	v.SetDefault("ui.loading_interval", d.UI.LoadingInterval)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.dir", d.Log.Dir)
	v.SetDefault("log.json", d.Log.JSON)

	return &Loader{v: v}
}

// LoadConfig loads configuration from path, merges environment variables,
// applies defaults and validates the result.
// If path is empty, DefaultPath is used and a missing file is not an error.
func (l *Loader) LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, &LoadError{
				Path:    path,
				Message: "failed to read config file",
				Err:     err,
			}
		}
	} else if explicit || !os.IsNotExist(err) {
		return nil, &LoadError{
			Path:    path,
			Message: "config file not found",
			Err:     err,
		}
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg, viperDecodeHook); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "failed to parse config file",
			Err:     err,
		}
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Path:    path,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return cfg, nil
}

// viperDecodeHook composes the standard mapstructure hooks with our custom ones.
func viperDecodeHook(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToThemeHookFunc(),
	)
}

// stringToThemeHookFunc normalizes theme names from files and env.
func stringToThemeHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != reflect.TypeOf(Theme("")) {
			return data, nil
		}
		return Theme(strings.ToLower(strings.TrimSpace(data.(string)))), nil
	}
}

// LoadError represents an error that occurred while loading configuration.
type LoadError struct {
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load is a convenience function that creates a new Loader and loads configuration.
func Load(path string) (*Config, error) {
	return NewLoader().LoadConfig(path)
}

const fileHeader = `# pulse configuration
# Every key can be overridden with PULSE_<SECTION>_<KEY>, e.g. PULSE_API_TIMEOUT=5m.
`

// Save writes cfg as YAML to path, creating parent directories.
// Durations are written in their string form so the file round-trips.
func Save(cfg *Config, path string) error {
	doc := map[string]any{
		"api": map[string]any{
			"base_url":     cfg.API.BaseURL,
			"timeout":      cfg.API.Timeout.String(),
			"analyze_path": cfg.API.AnalyzePath,
		},
		"session": map[string]any{
			"path": cfg.Session.Path,
		},
		"ui": map[string]any{
			"theme":            string(cfg.UI.Theme),
			"loading_interval": cfg.UI.LoadingInterval.String(),
		},
		"log": map[string]any{
			"level": cfg.Log.Level,
			"dir":   cfg.Log.Dir,
			"json":  cfg.Log.JSON,
		},
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(fileHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
