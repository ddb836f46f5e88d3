package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Iron-Ham/taglog/internal/config"
	"github.com/Iron-Ham/taglog/internal/logging"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify taglog configuration",
	Long: `View or modify taglog configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Keys use dot notation, e.g.:
  taglog config set level warn
  taglog config set file.enabled true
  taglog config set file.retention_days 14

Valid keys:
  level               - Global level (none, info, warn, error, debug)
  shard               - Shard number shown as SHARD_nn (>= 0)
  console.enabled     - Write to the console (true/false)
  console.level       - Console level override
  console.color       - Colors: always, auto, never
  file.enabled        - Write day files (true/false)
  file.dir            - Log directory
  file.retention_days - Days of files to keep (>= 1)
  file.level          - File level override`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/taglog/config.yaml, or at the path given with --config.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configInitForce bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config file")
}

// targetConfigFile is the file "config set" and "config init" write to.
func targetConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return config.ConfigFile()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	// Show where config is being read from
	if used := viper.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			fmt.Fprintf(out, "# Config file: %s\n", used)
		} else {
			fmt.Fprintf(out, "# Config file: %s (not found - using defaults)\n", used)
		}
	} else {
		fmt.Fprintf(out, "# Config file: (none - using defaults)\n")
	}

	content, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(content)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key exists
	validKeys := map[string]string{
		"level":               "level",
		"shard":               "int",
		"console.enabled":     "bool",
		"console.level":       "level",
		"console.color":       "color",
		"file.enabled":        "bool",
		"file.dir":            "string",
		"file.retention_days": "int",
		"file.level":          "level",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'taglog config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue any
	switch keyType {
	case "level":
		level, err := logging.ParseLevel(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		typedValue = strings.ToLower(level.String())
	case "color":
		if _, err := logging.ParseColorMode(value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		typedValue = strings.ToLower(value)
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = b
	case "int":
		n, err := cast.ToIntE(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = n
	default:
		typedValue = value
	}

	// Work on a private instance so the running configuration is untouched
	configFile := targetConfigFile()
	v := viper.New()
	config.ApplyDefaults(v)
	v.SetConfigFile(configFile)
	if _, err := os.Stat(configFile); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.Set(key, typedValue)

	if _, err := config.LoadFrom(v); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write to config file
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := targetConfigFile()

	if err := config.WriteDefault(configFile, configInitForce); err != nil {
		return fmt.Errorf("%w\nUse --force to overwrite it, or 'taglog config set' to modify values", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), targetConfigFile())
	return nil
}
