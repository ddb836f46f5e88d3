package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Iron-Ham/taglog/internal/logging"
	"github.com/spf13/viper"
)

func newViper(t *testing.T, yamlConfig string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	ApplyDefaults(v)

	if yamlConfig != "" {
		v.SetConfigType("yaml")
		if err := v.ReadConfig(strings.NewReader(yamlConfig)); err != nil {
			t.Fatalf("failed to read config: %v", err)
		}
	}
	return v
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}
	if cfg.Level != logging.LevelDebug {
		t.Errorf("Level = %s, want DEBUG", cfg.Level)
	}
	if cfg.Shard != nil {
		t.Errorf("Shard = %d, want unset", *cfg.Shard)
	}
	if !cfg.Console.Enabled {
		t.Error("Console.Enabled should be true by default")
	}
	if cfg.Console.Color != "always" {
		t.Errorf("Console.Color = %q, want always", cfg.Console.Color)
	}
	if cfg.File.Enabled {
		t.Error("File.Enabled should be false by default")
	}
	if cfg.File.Dir != "logs" {
		t.Errorf("File.Dir = %q, want logs", cfg.File.Dir)
	}
	if cfg.File.RetentionDays != 7 {
		t.Errorf("File.RetentionDays = %d, want 7", cfg.File.RetentionDays)
	}
	if _, ok := cfg.ConsoleLevel(); ok {
		t.Error("console level should be unset")
	}
	if _, ok := cfg.FileLevel(); ok {
		t.Error("file level should be unset")
	}
}

func TestLoadFrom(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		cfg, err := LoadFrom(newViper(t, ""))
		if err != nil {
			t.Fatalf("LoadFrom failed: %v", err)
		}
		if cfg.Level != logging.LevelDebug || !cfg.Console.Enabled || cfg.File.RetentionDays != 7 {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("config file values", func(t *testing.T) {
		cfg, err := LoadFrom(newViper(t, `
level: warn
shard: 3
console:
  level: error
  color: never
file:
  enabled: true
  dir: /var/log/app
  retention_days: 2
  level: 4
`))
		if err != nil {
			t.Fatalf("LoadFrom failed: %v", err)
		}

		if cfg.Level != logging.LevelWarn {
			t.Errorf("Level = %s, want WARN", cfg.Level)
		}
		if cfg.Shard == nil || *cfg.Shard != 3 {
			t.Errorf("Shard = %v, want 3", cfg.Shard)
		}
		if level, ok := cfg.ConsoleLevel(); !ok || level != logging.LevelError {
			t.Errorf("ConsoleLevel = %s, %v", level, ok)
		}
		if cfg.ColorMode() != logging.ColorNever {
			t.Errorf("ColorMode = %s, want never", cfg.ColorMode())
		}
		if !cfg.File.Enabled || cfg.File.Dir != "/var/log/app" || cfg.File.RetentionDays != 2 {
			t.Errorf("File = %+v", cfg.File)
		}
		if level, ok := cfg.FileLevel(); !ok || level != logging.LevelDebug {
			t.Errorf("FileLevel = %s, %v", level, ok)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TAGLOG_LEVEL", "error")
		t.Setenv("TAGLOG_SHARD", "12")
		t.Setenv("TAGLOG_FILE_RETENTION_DAYS", "30")
		t.Setenv("TAGLOG_CONSOLE_LEVEL", "info")

		cfg, err := LoadFrom(newViper(t, "level: debug\n"))
		if err != nil {
			t.Fatalf("LoadFrom failed: %v", err)
		}
		if cfg.Level != logging.LevelError {
			t.Errorf("Level = %s, want ERROR", cfg.Level)
		}
		if cfg.Shard == nil || *cfg.Shard != 12 {
			t.Errorf("Shard = %v, want 12", cfg.Shard)
		}
		if cfg.File.RetentionDays != 30 {
			t.Errorf("RetentionDays = %d, want 30", cfg.File.RetentionDays)
		}
		if level, ok := cfg.ConsoleLevel(); !ok || level != logging.LevelInfo {
			t.Errorf("ConsoleLevel = %s, %v", level, ok)
		}
	})

	t.Run("invalid level name", func(t *testing.T) {
		if _, err := LoadFrom(newViper(t, "level: loud\n")); err == nil {
			t.Error("expected error for invalid level")
		}
	})

	t.Run("invalid level number", func(t *testing.T) {
		if _, err := LoadFrom(newViper(t, "level: 9\n")); err == nil {
			t.Error("expected error for out of range level")
		}
	})

	t.Run("validation errors are returned", func(t *testing.T) {
		_, err := LoadFrom(newViper(t, "shard: -1\nfile:\n  retention_days: 0\n"))
		errs, ok := err.(ValidationErrors)
		if !ok {
			t.Fatalf("error = %v, want ValidationErrors", err)
		}
		if len(errs) != 2 {
			t.Errorf("got %d errors, want 2: %v", len(errs), errs)
		}
	})
}

func TestGet(t *testing.T) {
	// Set defaults in viper first (normally done by cmd init)
	SetDefaults()

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.File.Dir != "logs" {
		t.Errorf("Get().File.Dir = %q, want logs", cfg.File.Dir)
	}
}

func TestResolveFileDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		dir  string
		want string
	}{
		{"", filepath.Join("/base", "logs")},
		{"out", filepath.Join("/base", "out")},
		{"/abs/logs", "/abs/logs"},
		{"~", home},
		{"~/logs", filepath.Join(home, "logs")},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			f := FileConfig{Dir: tt.dir}
			if got := f.ResolveFileDir("/base"); got != tt.want {
				t.Errorf("ResolveFileDir = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/taglog" {
			t.Errorf("ConfigDir() = %q", got)
		}
		if got := ConfigFile(); got != "/custom/config/taglog/config.yaml" {
			t.Errorf("ConfigFile() = %q", got)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, _ := os.UserHomeDir()
		if got, want := ConfigDir(), filepath.Join(home, ".config", "taglog"); got != want {
			t.Errorf("ConfigDir() = %q, want %q", got, want)
		}
	})
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"level: debug", "retention_days: 7", "color: always"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("written config lacks %q:\n%s", want, content)
		}
	}
	if strings.Contains(string(content), "shard") {
		t.Errorf("unset shard should be omitted:\n%s", content)
	}

	t.Run("written file loads back", func(t *testing.T) {
		cfg, err := LoadFrom(newViper(t, string(content)))
		if err != nil {
			t.Fatalf("LoadFrom failed: %v", err)
		}
		if cfg.Level != logging.LevelDebug || cfg.File.Dir != "logs" {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("existing file is kept", func(t *testing.T) {
		if err := WriteDefault(path, false); err == nil {
			t.Error("expected error for existing file")
		}
		if err := WriteDefault(path, true); err != nil {
			t.Errorf("forced write failed: %v", err)
		}
	})
}
