// Package config loads, validates and persists rollcall's YAML configuration.
//
// The global file lives at ~/.rollcall/config.yaml (or ROLLCALL_CONFIG). A
// project-local .rollcall/config.yaml found by walking up from the working
// directory is merged on top, one top-level section at a time.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rshade/rollcall/internal/cache"
	"github.com/rshade/rollcall/internal/logging"
	"github.com/rshade/rollcall/internal/window"
)

const (
	// CurrentVersion is written by config init.
	CurrentVersion = "1.0.0"

	// SupportedVersions is the semver constraint a config file's version must meet.
	SupportedVersions = ">=1.0.0, <2.0.0"

	// EnvConfigPath overrides the global config file location.
	EnvConfigPath = "ROLLCALL_CONFIG"

	// EnvHome overrides the ~/.rollcall directory.
	EnvHome = "ROLLCALL_HOME"

	configDirName  = ".rollcall"
	configFileName = "config.yaml"
)

// Config errors.
var (
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrUnsupportedVersion = errors.New("unsupported configuration version")
	ErrUnknownKey         = errors.New("unknown configuration key")
)

// Config is the full rollcall configuration document.
type Config struct {
	Version string        `yaml:"version" validate:"required"`
	Window  WindowConfig  `yaml:"window"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Cache   CacheConfig   `yaml:"cache"`
	Roster  RosterConfig  `yaml:"roster"`

	configPath string
}

// WindowConfig holds the default windowing parameters for the CLI and TUI.
type WindowConfig struct {
	ItemExtent     float64 `yaml:"item_extent"     validate:"gt=0"`
	ViewportExtent float64 `yaml:"viewport_extent" validate:"gt=0"`
	Overscan       int     `yaml:"overscan"        validate:"gte=0"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" validate:"oneof=table json ndjson yaml csv"`
	Color         string `yaml:"color"          validate:"oneof=auto always never"`
}

// CacheConfig sizes the rendered-row cache used by the list view.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds" validate:"gte=1,lte=86400"`
	MaxEntries int  `yaml:"max_entries" validate:"gte=1"`
}

// RosterConfig selects the records shown by browse.
type RosterConfig struct {
	// Source is a .csv or .yaml roster file. Empty means a synthetic roster.
	Source         string `yaml:"source"          validate:"omitempty,endswith=.csv|endswith=.yaml|endswith=.yml"`
	SyntheticCount int    `yaml:"synthetic_count" validate:"gte=0,lte=1000000"`
}

//nolint:gochecknoglobals // validator instances cache struct metadata and are meant to be shared.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Default returns a Config holding built-in defaults and the default file path.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Window: WindowConfig{
			ItemExtent:     1,
			ViewportExtent: 20,
			Overscan:       window.DefaultOverscan,
		},
		Output: OutputConfig{
			DefaultFormat: "table",
			Color:         "auto",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: cache.DefaultTTLSeconds,
			MaxEntries: cache.DefaultMaxEntries,
		},
		Roster: RosterConfig{
			SyntheticCount: 1000,
		},
		configPath: DefaultConfigPath(),
	}
}

// New returns the defaults overlaid with the global config file, if it exists
// and parses. Use Load to see file errors.
func New() *Config {
	cfg, err := Load(DefaultConfigPath())
	if err != nil {
		return Default()
	}
	return cfg
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// Save writes the config to its path, creating the directory if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// ConfigPath returns the file this config was loaded from or will be saved to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes where Save writes.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Validate checks field rules, the version constraint and the window parameters.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", yamlPath(fe.Namespace()), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := CheckVersion(c.Version); err != nil {
		return err
	}

	if err := c.Window.ToWindowConfig().Validate(); err != nil {
		return fmt.Errorf("%w: window: %w", ErrInvalidConfig, err)
	}
	return nil
}

// CheckVersion reports whether v satisfies SupportedVersions.
func CheckVersion(v string) error {
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}

	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrUnsupportedVersion, v, err)
	}
	if !constraint.Check(ver) {
		return fmt.Errorf("%w %q (supported: %s)", ErrUnsupportedVersion, v, SupportedVersions)
	}
	return nil
}

// ToWindowConfig converts the window section to engine parameters.
func (w WindowConfig) ToWindowConfig() window.Config {
	return window.Config{
		ItemExtent:     w.ItemExtent,
		ViewportExtent: w.ViewportExtent,
		Overscan:       w.Overscan,
	}
}

// ToStoreOptions converts the cache section to row cache options.
func (cc CacheConfig) ToStoreOptions() cache.Options {
	ttl, err := cache.NewTTLConfig(cc.TTLSeconds)
	if err != nil {
		ttl = cache.DefaultTTLConfig()
	}
	return cache.Options{
		Enabled:    cc.Enabled,
		TTL:        ttl.Duration,
		MaxEntries: cc.MaxEntries,
	}
}

// ApplyEnvOverrides applies ROLLCALL_* environment variables on top of the file values.
func (c *Config) ApplyEnvOverrides() {
	if lvl := os.Getenv(logging.EnvLogLevel); lvl != "" {
		c.Logging.Level = strings.ToLower(lvl)
	}
	if format := os.Getenv(logging.EnvLogFormat); format != "" {
		c.Logging.Format = strings.ToLower(format)
	}
	c.Cache.Enabled = cache.GetCacheEnabledFromEnv(c.Cache.Enabled)
	c.Cache.TTLSeconds = cache.GetTTLFromEnv(c.Cache.TTLSeconds)
	c.Cache.MaxEntries = cache.GetMaxEntriesFromEnv(c.Cache.MaxEntries)
}

// DefaultConfigPath returns ROLLCALL_CONFIG, or config.yaml in the config directory.
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := GetConfigDir()
	if err != nil {
		return filepath.Join(configDirName, configFileName)
	}
	return filepath.Join(dir, configFileName)
}

// GetConfigDir returns ROLLCALL_HOME or ~/.rollcall.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName), nil
}

// yamlPath strips the root struct name from a validator namespace.
func yamlPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
