// Package config loads drawhost settings from YAML files and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DRAWHOST_LOG_LEVEL.
const EnvPrefix = "DRAWHOST"

// Config holds everything the adapter and the CLI need at startup.
type Config struct {
	LogLevel       string `mapstructure:"log_level" json:"log_level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	Company        string `mapstructure:"company" json:"company" jsonschema:"minLength=1"`
	ProductVersion string `mapstructure:"product_version" json:"product_version" jsonschema:"minLength=1"`
	// AlternateFont is substituted when a drawing names a font that cannot be found.
	AlternateFont string `mapstructure:"alternate_font" json:"alternate_font" jsonschema:"minLength=1"`
	// MachineRootKey and UserRootKey override the derived registry root key.
	MachineRootKey string          `mapstructure:"machine_root_key" json:"machine_root_key,omitempty"`
	UserRootKey    string          `mapstructure:"user_root_key" json:"user_root_key,omitempty"`
	Diagnostics    string          `mapstructure:"diagnostics" json:"diagnostics" jsonschema:"enum=log,enum=stderr,enum=both"`
	Overrides      OverridesConfig `mapstructure:"overrides" json:"overrides"`
	Capabilities   map[string]bool `mapstructure:"capabilities" json:"capabilities,omitempty"`
	SearchPaths    []string        `mapstructure:"search_paths" json:"search_paths,omitempty"`
}

// OverridesConfig controls the persisted capability override table.
type OverridesConfig struct {
	Path     string        `mapstructure:"path" json:"path,omitempty"`
	Watch    bool          `mapstructure:"watch" json:"watch"`
	Debounce time.Duration `mapstructure:"debounce" json:"debounce" jsonschema:"minimum=0"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		LogLevel:       "info",
		Company:        "MyRealDWG",
		ProductVersion: "1.0.0",
		AlternateFont:  "txt.shx",
		Diagnostics:    "log",
		Overrides: OverridesConfig{
			Debounce: 250 * time.Millisecond,
		},
	}
}

// SetDefaults registers Defaults() with v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("company", d.Company)
	v.SetDefault("product_version", d.ProductVersion)
	v.SetDefault("alternate_font", d.AlternateFont)
	v.SetDefault("diagnostics", d.Diagnostics)
	v.SetDefault("overrides.watch", d.Overrides.Watch)
	v.SetDefault("overrides.debounce", d.Overrides.Debounce)
}

// DefaultDir returns ~/.drawhost.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".drawhost"
	}
	return filepath.Join(home, ".drawhost")
}

// Load reads configuration into v and decodes it. An explicit path must
// exist; otherwise config.yaml is looked up in DefaultDir() and its absence
// is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(DefaultDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg = cfg.Normalized()
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalized lower-cases the enumerated fields so that "DEBUG" and "debug"
// mean the same thing.
func (c Config) Normalized() Config {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Diagnostics = strings.ToLower(strings.TrimSpace(c.Diagnostics))
	return c
}

// Version parses ProductVersion.
func (c Config) Version() (*semver.Version, error) {
	ver, err := semver.NewVersion(c.ProductVersion)
	if err != nil {
		return nil, fmt.Errorf("product_version %q: %w", c.ProductVersion, err)
	}
	return ver, nil
}

// ProductRootKey returns Software\<Company>\<major>.<minor>.
func (c Config) ProductRootKey() (string, error) {
	ver, err := c.Version()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`Software\%s\%d.%d`, c.Company, ver.Major(), ver.Minor()), nil
}

// MachineKey returns the machine registry root key, derived unless overridden.
func (c Config) MachineKey() (string, error) {
	if c.MachineRootKey != "" {
		return c.MachineRootKey, nil
	}
	return c.ProductRootKey()
}

// UserKey returns the user registry root key, derived unless overridden.
func (c Config) UserKey() (string, error) {
	if c.UserRootKey != "" {
		return c.UserRootKey, nil
	}
	return c.ProductRootKey()
}

// Level maps LogLevel to a slog level. Unknown values mean info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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
