package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/Iron-Ham/taglog/internal/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to environment variable overrides, e.g.
// TAGLOG_FILE_RETENTION_DAYS.
const EnvPrefix = "TAGLOG"

// Config represents the complete taglog configuration
type Config struct {
	// Level is the global threshold used by transports without an override
	Level logging.Level `mapstructure:"level" yaml:"level"`
	// Shard is the optional shard label shown in every line (unset: no label)
	Shard *int `mapstructure:"shard" yaml:"shard,omitempty"`

	Console ConsoleConfig `mapstructure:"console" yaml:"console"`
	File    FileConfig    `mapstructure:"file" yaml:"file"`
}

// ConsoleConfig controls the console transport
type ConsoleConfig struct {
	// Enabled registers the console transport (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level overrides the global level for the console
	Level *logging.Level `mapstructure:"level" yaml:"level,omitempty"`
	// Color controls ANSI colors
	// Options: "always", "auto", "never"
	Color string `mapstructure:"color" yaml:"color"`
}

// FileConfig controls the day-rotating file transport
type FileConfig struct {
	// Enabled registers the file transport (default: false)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Dir is the log directory, created if missing (default: "logs")
	Dir string `mapstructure:"dir" yaml:"dir"`
	// RetentionDays is how many days of files are kept (default: 7, min: 1)
	RetentionDays int `mapstructure:"retention_days" yaml:"retention_days"`
	// Level overrides the global level for the file
	Level *logging.Level `mapstructure:"level" yaml:"level,omitempty"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Level: logging.LevelDebug,
		Console: ConsoleConfig{
			Enabled: true,
			Color:   "always",
		},
		File: FileConfig{
			Enabled:       false,
			Dir:           "logs",
			RetentionDays: logging.DefaultRetentionDays,
		},
	}
}

// SetDefaults registers default values with the global viper instance
func SetDefaults() {
	ApplyDefaults(viper.GetViper())
}

// ApplyDefaults registers default values with v. Keys without a default are
// bound to the environment explicitly so overrides still reach Unmarshal.
func ApplyDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("level", defaults.Level.String())

	// Console defaults
	v.SetDefault("console.enabled", defaults.Console.Enabled)
	v.SetDefault("console.color", defaults.Console.Color)

	// File defaults
	v.SetDefault("file.enabled", defaults.File.Enabled)
	v.SetDefault("file.dir", defaults.File.Dir)
	v.SetDefault("file.retention_days", defaults.File.RetentionDays)

	for _, key := range []string{"shard", "console.level", "file.level"} {
		_ = v.BindEnv(key)
	}
}

// Load reads the configuration from the global viper instance into a Config
// struct and validates it
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the configuration from v and validates it
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(DecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// DecodeHook returns the hook used when unmarshaling: levels from names or
// numbers, plus the usual duration and comma-list conversions.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		levelHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

var levelType = reflect.TypeOf(logging.Level(0))

// levelHook turns "warn", "2" or 2 into logging.LevelWarn.
func levelHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != levelType {
		return data, nil
	}

	switch v := data.(type) {
	case logging.Level:
		return v, nil
	case string:
		return logging.ParseLevel(v)
	}

	n, err := cast.ToIntE(data)
	if err != nil {
		return nil, fmt.Errorf("invalid level %v: %w", data, err)
	}
	level := logging.Level(n)
	if !level.Valid() {
		return nil, fmt.Errorf("invalid level %d (valid: %s)", n, strings.Join(logging.ValidLevels(), ", "))
	}
	return level, nil
}

// ConsoleLevel returns the console override, if any.
func (c *Config) ConsoleLevel() (logging.Level, bool) {
	if c.Console.Level == nil {
		return logging.LevelNone, false
	}
	return *c.Console.Level, true
}

// FileLevel returns the file override, if any.
func (c *Config) FileLevel() (logging.Level, bool) {
	if c.File.Level == nil {
		return logging.LevelNone, false
	}
	return *c.File.Level, true
}

// ColorMode returns the parsed console color mode.
func (c *Config) ColorMode() logging.ColorMode {
	mode, err := logging.ParseColorMode(c.Console.Color)
	if err != nil {
		return logging.ColorAlways
	}
	return mode
}

// ResolveFileDir returns the log directory. A leading ~ expands to the
// user's home directory and relative paths are resolved against baseDir.
func (f *FileConfig) ResolveFileDir(baseDir string) string {
	path := f.Dir
	if path == "" {
		path = Default().File.Dir
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return path
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taglog")
	}
	// Fall back to ~/.config/taglog
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taglog"
	}
	return filepath.Join(home, ".config", "taglog")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return out, nil
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is left alone unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}

	out, err := Marshal(Default())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
